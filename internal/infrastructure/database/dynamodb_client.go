package database

import (
	"context"
	"log"

	appconfig "nexus_pix/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ConnectDynamoDB creates the client backing the charges table.
//
// With DYNAMODB_ENDPOINT set (dynamodb-local) static credentials are always
// used, falling back to "local" since the emulator does not validate them.
// Without it the default AWS credential chain applies unless keys are given.
func ConnectDynamoDB(ctx context.Context, cfg appconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := NewDynamoDBConfig(ctx, cfg)
	if err != nil {
		log.Printf("[pix][dynamodb] config load failed err=%v", err)
		return nil, err
	}
	log.Printf("[pix][dynamodb] client ready region=%s endpoint=%q table=%s", cfg.AWSRegion, cfg.DynamoDBEndpoint, cfg.ChargesTable)
	return dynamodb.NewFromConfig(awsCfg), nil
}

func NewDynamoDBConfig(ctx context.Context, cfg appconfig.Config) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.AWSRegion),
	}

	keyID, secret := cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey
	if cfg.DynamoDBEndpoint != "" {
		keyID = defaultString(keyID, "local")
		secret = defaultString(secret, "local")
	}
	if keyID != "" && secret != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(keyID, secret, ""),
		))
	}

	if endpoint := cfg.DynamoDBEndpoint; endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

func defaultString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
