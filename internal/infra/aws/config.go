package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"todo-api/pkg/resource"
)

var Config aws.Config

// LoadConfig resolves the SDK configuration from application properties.
// Without explicit credentials the default credential chain applies
// (environment variables, IAM roles, etc.).
func LoadConfig() error {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(resource.GetString("app.cloud.aws-region")),
	}

	if accessKey := resource.GetString("app.cloud.aws-access-key-id"); accessKey != "" {
		secretKey := resource.GetString("app.cloud.aws-secret-access-key")
		if secretKey != "" {
			opts = append(opts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
		}
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	Config = cfg
	return nil
}
