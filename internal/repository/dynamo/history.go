package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"container_monitor/internal/models"
	"container_monitor/internal/telemetry"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/google/uuid"
)

// maxWriteItems is DynamoDB's BatchWriteItem limit.
const maxWriteItems = 25

type item struct {
	ID             string  `dynamodbav:"id"`
	TS             int64   `dynamodbav:"ts"`
	Temperature    float64 `dynamodbav:"temperature"`
	Classification string  `dynamodbav:"classification"`
	Source         string  `dynamodbav:"source"`
}

func toItem(r models.HistoryRecord) item {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Source == "" {
		r.Source = models.SourceLive
	}
	return item{
		ID:             r.ID,
		TS:             r.Timestamp,
		Temperature:    r.Temperature,
		Classification: string(r.Classification),
		Source:         r.Source,
	}
}

func (it item) record() models.HistoryRecord {
	return models.HistoryRecord{
		ID:             it.ID,
		Timestamp:      it.TS,
		Temperature:    it.Temperature,
		Classification: models.Classification(it.Classification),
		Source:         it.Source,
	}
}

// NewClient builds a DynamoDB client. endpoint is for local DynamoDB.
func NewClient(region, endpoint string) (*dynamodb.DynamoDB, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return dynamodb.New(sess), nil
}

// HistoryStore keeps history records in a table keyed by "id".
type HistoryStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewHistoryStore(client dynamodbiface.DynamoDBAPI, table string) *HistoryStore {
	return &HistoryStore{client: client, table: table}
}

// WriteBatch writes records 25 at a time. Unprocessed items are retried once;
// anything still unprocessed fails the call. Chunks are not transactional, so
// a failure reports the chunks already stored as a PartialWriteError.
func (s *HistoryStore) WriteBatch(ctx context.Context, records []models.HistoryRecord) error {
	for start := 0; start < len(records); start += maxWriteItems {
		end := start + maxWriteItems
		if end > len(records) {
			end = len(records)
		}

		reqs := make([]*dynamodb.WriteRequest, 0, end-start)
		for _, r := range records[start:end] {
			av, err := dynamodbattribute.MarshalMap(toItem(r))
			if err != nil {
				return partial(start, fmt.Errorf("marshal history record: %w", err))
			}
			reqs = append(reqs, &dynamodb.WriteRequest{PutRequest: &dynamodb.PutRequest{Item: av}})
		}
		if err := s.batchWrite(ctx, reqs); err != nil {
			return partial(start, fmt.Errorf("write items %d-%d: %w", start, end, err))
		}
	}
	return nil
}

func partial(written int, err error) error {
	if written == 0 {
		return err
	}
	return &telemetry.PartialWriteError{Written: written, Err: err}
}

func (s *HistoryStore) batchWrite(ctx context.Context, reqs []*dynamodb.WriteRequest) error {
	pending := map[string][]*dynamodb.WriteRequest{s.table: reqs}
	for attempt := 0; attempt < 2 && len(pending[s.table]) > 0; attempt++ {
		out, err := s.client.BatchWriteItemWithContext(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return err
		}
		pending = out.UnprocessedItems
		if pending == nil {
			pending = map[string][]*dynamodb.WriteRequest{}
		}
	}
	if n := len(pending[s.table]); n > 0 {
		return fmt.Errorf("%d items left unprocessed", n)
	}
	return nil
}

// Append writes a single record.
func (s *HistoryStore) Append(ctx context.Context, r models.HistoryRecord) error {
	av, err := dynamodbattribute.MarshalMap(toItem(r))
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}
	_, err = s.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put history record: %w", err)
	}
	return nil
}

// Range scans for from <= ts <= to. Scan order is unspecified.
func (s *HistoryStore) Range(ctx context.Context, from, to int64) ([]models.HistoryRecord, error) {
	input := &dynamodb.ScanInput{
		TableName:                aws.String(s.table),
		FilterExpression:         aws.String("#ts BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]*string{"#ts": aws.String("ts")},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":from": {N: aws.String(strconv.FormatInt(from, 10))},
			":to":   {N: aws.String(strconv.FormatInt(to, 10))},
		},
	}

	var (
		out     []models.HistoryRecord
		pageErr error
	)
	err := s.client.ScanPagesWithContext(ctx, input, func(page *dynamodb.ScanOutput, _ bool) bool {
		var items []item
		if pageErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); pageErr != nil {
			return false
		}
		for _, it := range items {
			out = append(out, it.record())
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	if pageErr != nil {
		return nil, fmt.Errorf("unmarshal history page: %w", pageErr)
	}
	return out, nil
}

// Clear deletes every item and returns how many were removed.
func (s *HistoryStore) Clear(ctx context.Context) (int64, error) {
	var keys []map[string]*dynamodb.AttributeValue
	err := s.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String("id"),
	}, func(page *dynamodb.ScanOutput, _ bool) bool {
		keys = append(keys, page.Items...)
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("scan history keys: %w", err)
	}

	var deleted int64
	for start := 0; start < len(keys); start += maxWriteItems {
		end := start + maxWriteItems
		if end > len(keys) {
			end = len(keys)
		}
		reqs := make([]*dynamodb.WriteRequest, 0, end-start)
		for _, k := range keys[start:end] {
			reqs = append(reqs, &dynamodb.WriteRequest{DeleteRequest: &dynamodb.DeleteRequest{Key: k}})
		}
		if err := s.batchWrite(ctx, reqs); err != nil {
			return deleted, fmt.Errorf("delete history items: %w", err)
		}
		deleted += int64(len(reqs))
	}
	return deleted, nil
}

var _ telemetry.HistoryStore = (*HistoryStore)(nil)
