// Package archive keeps a copy of every raw role document fetched from the
// registry in S3, keyed by organisation number. It is a best-effort fallback
// for when the registry's role endpoints are unavailable.
package archive

import (
	"bytes"
	"context"
	"io/ioutil"
	"net"
	"net/http"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type Client interface {
	GetRoleDocument(ctx context.Context, orgNr string) (bool, []byte, string, error)
	PutRoleDocument(ctx context.Context, orgNr string, body []byte, transactionID string) error
	Healthcheck() fthealth.Check
}

type S3Client struct {
	s3         s3iface.S3API
	bucketName string
}

func NewClient(bucketName string, awsRegion string) (Client, error) {
	hc := http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          20,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   20,
			TLSHandshakeTimeout:   3 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
	sess, err := session.NewSession(
		&aws.Config{
			Region:     aws.String(awsRegion),
			MaxRetries: aws.Int(1),
			HTTPClient: &hc,
		})
	if err != nil {
		return nil, err
	}
	return &S3Client{
		s3:         s3.New(sess),
		bucketName: bucketName,
	}, nil
}

// GetRoleDocument returns the archived raw document for an organisation,
// along with the transaction ID recorded when it was stored.
func (c *S3Client) GetRoleDocument(ctx context.Context, orgNr string) (bool, []byte, string, error) {
	resp, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(getKey(orgNr)),
	})
	if err != nil {
		if e, ok := err.(awserr.Error); ok && e.Code() == s3.ErrCodeNoSuchKey {
			return false, nil, "", nil
		}
		return false, nil, "", err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return false, nil, "", err
	}

	var tid string
	if t, ok := resp.Metadata["Transaction_id"]; ok && t != nil {
		tid = *t
	}
	return true, body, tid, nil
}

func (c *S3Client) PutRoleDocument(ctx context.Context, orgNr string, body []byte, transactionID string) error {
	_, err := c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(getKey(orgNr)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]*string{
			"Transaction_id": aws.String(transactionID),
		},
	})
	if err != nil {
		logger.WithError(err).WithField("orgnr", orgNr).Error("Could not archive role document")
	}
	return err
}

func (c *S3Client) Healthcheck() fthealth.Check {
	return fthealth.Check{
		ID:               "role-archive-check",
		Name:             "Role document archive is accessible",
		BusinessImpact:   "Role lookups cannot fall back to archived documents when the registry is down",
		Severity:         3,
		PanicGuide:       "https://github.com/firmify/board-candidate-screener",
		TechnicalSummary: "Cannot perform a HeadBucket on the archive bucket. Check the bucket name and AWS credentials.",
		Timeout:          10 * time.Second,
		Checker: func() (string, error) {
			_, err := c.s3.HeadBucket(&s3.HeadBucketInput{
				Bucket: aws.String(c.bucketName),
			})
			if err != nil {
				return "Cannot access archive bucket", err
			}
			return "", nil
		},
	}
}

// Split the organisation number into a shallow prefix so objects spread
// across partitions: 918654062 -> 918/654062.
func getKey(orgNr string) string {
	if len(orgNr) <= 3 {
		return orgNr
	}
	return orgNr[:3] + "/" + orgNr[3:]
}
