package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"todo-api/pkg/resource"
)

// NewSqsClient builds an SQS client from the loaded configuration. A
// configured app.cloud.aws-endpoint (LocalStack) overrides the base endpoint.
func NewSqsClient() *sqs.Client {
	if endpoint := resource.GetString("app.cloud.aws-endpoint"); endpoint != "" {
		return sqs.NewFromConfig(Config, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	return sqs.NewFromConfig(Config)
}
