package s3client

import (
	"errors"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"

	"parshealth.com/triage/logger"
)

// Client stores and retrieves triage payloads: inbound vitals
// documents and outbound assessment results. The shared session is
// swapped under a mutex; each operation retries once against a fresh
// session before its error surfaces.
type Client struct {
	mu         sync.Mutex
	sess       *session.Session
	bucketName string
	env        EnvironmentConfig
}

type EnvironmentConfig struct {
	BucketName  string `envconfig:"PARS_STORAGE_CONTAINER_NAME" required:"true"`
	ParsEnv     string `envconfig:"PARS_ENV" required:"true"`
	Region      string `envconfig:"PARS_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"PARS_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"PARS_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"PARS_AWS_ACCESS_KEY" default:""`
}

// roleConfig relies on the instance role for credentials.
func (env EnvironmentConfig) roleConfig() *aws.Config {
	return &aws.Config{
		Region:     aws.String(env.Region),
		MaxRetries: aws.Int(4),
	}
}

// staticConfig uses credentials from the environment. In the dev
// environment object storage runs behind a local endpoint that only
// speaks path-style addressing.
func (env EnvironmentConfig) staticConfig() *aws.Config {
	cfg := aws.NewConfig().
		WithRegion(env.Region).
		WithMaxRetries(4).
		WithCredentials(credentials.NewStaticCredentials(env.AccessKeyID, env.AccessKey, ""))

	if env.ParsEnv == "dev" && len(env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(env.AwsEndpoint).
			WithS3ForcePathStyle(true)
	}
	return cfg
}

var clientLogger = logger.NewLogger("S3Client")

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := &Client{
		bucketName: env.BucketName,
		env:        env,
	}
	if _, err := client.sessionAfter(nil); err != nil {
		return nil, err
	}
	return client, nil
}

func (client *Client) Upload(data string, key string) (*s3manager.UploadOutput, error) {
	sess, err := client.sessionAfter(nil)
	if err != nil {
		return nil, err
	}
	params := &s3manager.UploadInput{
		Bucket: &client.bucketName,
		Key:    &key,
		Body:   strings.NewReader(data),
	}
	clientLogger.Debug().Str("key", key).Str("bucket", client.bucketName).Msg("Uploading the file")
	output, err := s3manager.NewUploader(sess).Upload(params)
	if err == nil {
		return output, nil
	}
	clientLogger.Error().Err(err).Str("key", key).Msg("Upload failed, refreshing S3 session")
	if sess, err = client.sessionAfter(sess); err != nil {
		return nil, err
	}
	params.Body = strings.NewReader(data)
	return s3manager.NewUploader(sess).Upload(params)
}

func (client *Client) Download(key string) ([]byte, error) {
	sess, err := client.sessionAfter(nil)
	if err != nil {
		return nil, err
	}
	params := &s3.GetObjectInput{
		Bucket: &client.bucketName,
		Key:    &key,
	}
	clientLogger.Debug().Str("key", key).Str("bucket", client.bucketName).Msg("Downloading file")
	buf := aws.NewWriteAtBuffer([]byte{})
	if _, err = s3manager.NewDownloader(sess).Download(buf, params); err == nil {
		return buf.Bytes(), nil
	}
	clientLogger.Error().Err(err).Str("key", key).Msg("Download failed, refreshing S3 session")
	if sess, err = client.sessionAfter(sess); err != nil {
		return nil, err
	}
	buf = aws.NewWriteAtBuffer([]byte{})
	if _, err = s3manager.NewDownloader(sess).Download(buf, params); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close exists for symmetry with the other transport clients; a
// session holds nothing that needs releasing.
func (client *Client) Close() {}

// sessionAfter returns a session other than stale, building a new one
// unless a concurrent caller already swapped the stale one out. Pass
// nil for the current session.
func (client *Client) sessionAfter(stale *session.Session) (*session.Session, error) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.sess != nil && client.sess != stale {
		return client.sess, nil
	}
	sess, err := client.newSession()
	if err != nil {
		client.sess = nil
		return nil, err
	}
	client.sess = sess
	return sess, nil
}

// newSession tries the instance role first and falls back to static
// credentials from the environment. An sts identity call proves each
// candidate before it is accepted.
func (client *Client) newSession() (*session.Session, error) {
	sess, err := session.NewSession(client.env.roleConfig())
	if err == nil {
		if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err == nil {
			clientLogger.Info().Msg("S3 session successfully initialized using EC2")
			return sess, nil
		}
	}
	clientLogger.Info().Msg("Could not initialize S3 session using EC2, trying env credentials")
	sess, err = session.NewSession(client.env.staticConfig())
	if err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, err
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return nil, errors.New("could not initialize S3 session")
	}
	clientLogger.Info().Msg("S3 session successfully initialized using env credentials")
	return sess, nil
}
