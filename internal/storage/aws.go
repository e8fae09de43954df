package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// runPartition is the partition key shared by all run summaries.
const runPartition = "RETENTION_RUN"

// DynamoAPI is the subset of the DynamoDB client used here.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// S3PutAPI is the subset of the S3 client used here.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AWSStorage archives plans in S3 and keeps run summaries in DynamoDB.
type AWSStorage struct {
	dynamoDB  DynamoAPI
	s3Client  S3PutAPI
	tableName string
	bucket    string
	prefix    string
}

// NewAWSStorage builds the clients from the default credential chain.
func NewAWSStorage(ctx context.Context, cfg config.StorageConfig) (*AWSStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSProfile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewAWSStorageWithClients(dynamodb.NewFromConfig(awsCfg), s3.NewFromConfig(awsCfg), cfg), nil
}

// NewAWSStorageWithClients uses the given clients.
func NewAWSStorageWithClients(db DynamoAPI, s3c S3PutAPI, cfg config.StorageConfig) *AWSStorage {
	return &AWSStorage{
		dynamoDB:  db,
		s3Client:  s3c,
		tableName: cfg.DynamoDBTable,
		bucket:    cfg.S3Bucket,
		prefix:    cfg.S3Prefix,
	}
}

// RecordsRuns reports whether a DynamoDB table is configured.
func (s *AWSStorage) RecordsRuns() bool { return s.tableName != "" }

// SavePlan uploads plan as JSON to s3://bucket/prefix/YYYY/MM/DD/<run id>.json.
func (s *AWSStorage) SavePlan(ctx context.Context, plan *retention.Plan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}

	key := planKey(plan)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("putting plan to S3: %w", err)
	}
	return nil
}

// runItem is the DynamoDB shape of a run summary. SK sorts runs by start
// time within the shared partition.
type runItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	ID         string `dynamodbav:"ID"`
	Action     string `dynamodbav:"Action"`
	Filter     string `dynamodbav:"Filter"`
	Evaluated  int    `dynamodbav:"Evaluated"`
	Kept       int    `dynamodbav:"Kept"`
	Candidates int    `dynamodbav:"Candidates"`
	Protected  int    `dynamodbav:"Protected"`
	StartedAt  string `dynamodbav:"StartedAt"`
	FinishedAt string `dynamodbav:"FinishedAt"`
}

// SaveRun stores a run summary.
func (s *AWSStorage) SaveRun(ctx context.Context, run *domain.RetentionRun) error {
	started := run.StartedAt.UTC().Format(time.RFC3339Nano)
	item := runItem{
		PK:         runPartition,
		SK:         started + "#" + run.ID,
		ID:         run.ID,
		Action:     string(run.Action),
		Filter:     run.Filter,
		Evaluated:  run.Evaluated,
		Kept:       run.Kept,
		Candidates: run.Candidates,
		Protected:  run.Protected,
		StartedAt:  started,
		FinishedAt: run.FinishedAt.UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling run: %w", err)
	}
	_, err = s.dynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting run to DynamoDB: %w", err)
	}
	return nil
}

// ListRuns returns the newest runs first.
func (s *AWSStorage) ListRuns(ctx context.Context, limit int) ([]domain.RetentionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	result, err := s.dynamoDB.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: runPartition},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("querying runs from DynamoDB: %w", err)
	}

	runs := make([]domain.RetentionRun, 0, len(result.Items))
	for _, av := range result.Items {
		var item runItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			return nil, fmt.Errorf("unmarshaling run: %w", err)
		}
		run, err := item.toRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (i runItem) toRun() (domain.RetentionRun, error) {
	started, err := time.Parse(time.RFC3339Nano, i.StartedAt)
	if err != nil {
		return domain.RetentionRun{}, fmt.Errorf("run %s: bad StartedAt: %w", i.ID, err)
	}
	finished, err := time.Parse(time.RFC3339Nano, i.FinishedAt)
	if err != nil {
		return domain.RetentionRun{}, fmt.Errorf("run %s: bad FinishedAt: %w", i.ID, err)
	}
	return domain.RetentionRun{
		ID:         i.ID,
		Action:     domain.GDPRAction(i.Action),
		Filter:     i.Filter,
		Evaluated:  i.Evaluated,
		Kept:       i.Kept,
		Candidates: i.Candidates,
		Protected:  i.Protected,
		StartedAt:  started,
		FinishedAt: finished,
	}, nil
}
