package repository

import (
	"context"
	"time"

	"quotedesk/internal/domain/entities"
	"quotedesk/internal/usecase/interfaces"
	"quotedesk/pkg"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// collectionKey stands in for the empty key, which DynamoDB rejects in a
// key attribute.
const collectionKey = "_collection"

type recordItem struct {
	Kind      string `dynamodbav:"kind"`
	Key       string `dynamodbav:"key"`
	Body      string `dynamodbav:"body"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// DynamoAPI is the subset of *dynamodb.Client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	dynamodb.QueryAPIClient
}

// DynamoRecordStore keeps records in one DynamoDB table.
//
// Table requirements:
//   - PK: kind (string)
//   - SK: key (string)
//
// The JSON document is stored verbatim in the body attribute so the file and
// DynamoDB stores hold identical documents.
type DynamoRecordStore struct {
	ddb       DynamoAPI
	tableName string
	log       *zap.Logger
}

var _ interfaces.IRecordStore = (*DynamoRecordStore)(nil)

func NewDynamoRecordStore(ddb DynamoAPI, tableName string, log *zap.Logger) *DynamoRecordStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &DynamoRecordStore{ddb: ddb, tableName: tableName, log: log.Named("dynamo-store")}
}

func storedKey(key string) string {
	if key == "" {
		return collectionKey
	}
	return key
}

func (r *DynamoRecordStore) itemKey(kind entities.RecordKind, key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"kind": &types.AttributeValueMemberS{Value: string(kind)},
		"key":  &types.AttributeValueMemberS{Value: storedKey(key)},
	}
}

func (r *DynamoRecordStore) Get(ctx context.Context, kind entities.RecordKind, key string) (interfaces.Document, bool, error) {
	if err := checkKey(kind, key); err != nil {
		return interfaces.Document{}, false, err
	}

	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.itemKey(kind, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return interfaces.Document{}, false, pkg.IOError("get "+string(kind), err)
	}
	if len(out.Item) == 0 {
		return interfaces.Document{}, false, nil
	}

	var it recordItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return interfaces.Document{}, false, pkg.CorruptRecordError(string(kind)+" item", err)
	}
	body := []byte(it.Body)
	if err := checkShape(kind, key, body); err != nil {
		return interfaces.Document{}, false, err
	}
	return interfaces.Document{Key: key, Body: body}, true, nil
}

func (r *DynamoRecordStore) Put(ctx context.Context, kind entities.RecordKind, key string, body []byte) error {
	if err := checkKey(kind, key); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(recordItem{
		Kind:      string(kind),
		Key:       storedKey(key),
		Body:      string(body),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return pkg.NewDomainError(pkg.KindInternal, "MARSHAL_FAILED", "marshal record", err)
	}

	if _, err := r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return pkg.IOError("put "+string(kind), err)
	}
	return nil
}

func (r *DynamoRecordStore) Delete(ctx context.Context, kind entities.RecordKind, key string) error {
	if err := checkKey(kind, key); err != nil {
		return err
	}
	if _, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.itemKey(kind, key),
	}); err != nil {
		return pkg.IOError("delete "+string(kind), err)
	}
	return nil
}

func (r *DynamoRecordStore) List(ctx context.Context, kind entities.RecordKind) ([]interfaces.Document, error) {
	if !kind.Valid() {
		return nil, checkKey(kind, "")
	}
	if kind.IsCollection() {
		doc, found, err := r.Get(ctx, kind, "")
		if err != nil || !found {
			return nil, err
		}
		return splitCollection(r.log, kind, doc)
	}

	paginator := dynamodb.NewQueryPaginator(r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#kind = :kind"),
		ExpressionAttributeNames: map[string]string{
			"#kind": "kind",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind": &types.AttributeValueMemberS{Value: string(kind)},
		},
		ConsistentRead: aws.Bool(true),
	})

	var docs []interfaces.Document
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkg.IOError("query "+string(kind), err)
		}
		for _, raw := range page.Items {
			var it recordItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				r.log.Warn("skipping undecodable item", zap.String("kind", string(kind)), zap.Error(err))
				continue
			}
			body := []byte(it.Body)
			if err := checkShape(kind, it.Key, body); err != nil {
				r.log.Warn("skipping corrupt record", zap.String("kind", string(kind)), zap.String("key", it.Key), zap.Error(err))
				continue
			}
			docs = append(docs, interfaces.Document{Key: it.Key, Body: body})
		}
	}
	return docs, nil
}
