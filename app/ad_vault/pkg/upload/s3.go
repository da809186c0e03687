package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
)

// ObjectUploader manager.Uploader 的最小接口
type ObjectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Transfer 把选中广告的清单写入 S3
type S3Transfer struct {
	uploader ObjectUploader
	bucket   string
	prefix   string
	now      func() time.Time
}

var _ Transfer = (*S3Transfer)(nil)

// NewS3Transfer 创建 S3 保存，凭证为空时依次尝试环境变量和默认凭证链
func NewS3Transfer(ctx context.Context, cfg config.S3Config) (*S3Transfer, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket not configured")
	}

	accessKey, secretKey := cfg.AccessKeyID, cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	} else {
		logger.Log.Warn("S3 未配置静态凭证，使用默认凭证链")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewS3TransferWithUploader(manager.NewUploader(s3.NewFromConfig(awsCfg)), cfg.Bucket, cfg.Prefix), nil
}

// NewS3TransferWithUploader 使用给定的上传器创建 S3 保存
func NewS3TransferWithUploader(u ObjectUploader, bucket, prefix string) *S3Transfer {
	return &S3Transfer{uploader: u, bucket: bucket, prefix: prefix, now: time.Now}
}

// Manifest 写入 S3 的清单内容
type Manifest struct {
	JobID      string     `json:"job_id"`
	ExportedAt time.Time  `json:"exported_at"`
	AdIDs      []string   `json:"ad_ids"`
	Ads        []model.Ad `json:"ads"`
}

// Key 任务清单的对象键
func (t *S3Transfer) Key(jobID string) string {
	return path.Join(t.prefix, jobID+".json")
}

// Transfer 上传清单，进度按已读取的字节数计算
func (t *S3Transfer) Transfer(ctx context.Context, job Job, progress func(int)) error {
	body, err := json.MarshalIndent(Manifest{
		JobID:      job.ID,
		ExportedAt: t.now().UTC(),
		AdIDs:      job.AdIDs,
		Ads:        job.Ads,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	_, err = t.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.bucket),
		Key:           aws.String(t.Key(job.ID)),
		Body:          &progressReader{r: bytes.NewReader(body), total: int64(len(body)), progress: progress},
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}

type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		p.progress(int(p.read * 100 / p.total))
	}
	return n, err
}
