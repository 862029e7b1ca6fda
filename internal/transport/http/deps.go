package http

import (
	"github.com/showcase-api/internal/infrastructure/dynamo"
	s3infra "github.com/showcase-api/internal/infrastructure/s3"
	"github.com/showcase-api/internal/infrastructure/smtp"
	"github.com/showcase-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. Handles are
// created once at startup and injected; no request opens its own
// connection to the external stores.
type Deps struct {
	OTPRepo     *dynamo.OTPRepo
	ProjectRepo *dynamo.ProjectRepo
	MediaStore  *s3infra.Store
	Mailer      smtp.Mailer
	Events      sns.Publisher // nil when SNS_TOPIC_ARN is unset
}
