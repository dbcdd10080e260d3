package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// API is the subset of *dynamodb.Client the session store uses.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// SessionStore keeps one item per device in the sessions table; each
// persisted key is an attribute of that item.
type SessionStore struct {
	client    API
	tableName string
	deviceID  string
}

func NewSessionStore(client API, tableName, deviceID string) *SessionStore {
	return &SessionStore{client: client, tableName: tableName, deviceID: deviceID}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      strKey(fieldDeviceID, s.deviceID),
		ProjectionExpression:     aws.String("#k"),
		ExpressionAttributeNames: map[string]string{"#k": key},
		ConsistentRead:           aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	av, ok := out.Item[key]
	if !ok {
		return "", false, nil
	}
	var v string
	if err := attributevalue.Unmarshal(av, &v); err != nil {
		return "", false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		key:            value,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return s.update(ctx, ue)
}

func (s *SessionStore) Remove(ctx context.Context, key string) error {
	ue, err := buildRemoveExpr(key)
	if err != nil {
		return err
	}
	return s.update(ctx, ue)
}

func (s *SessionStore) update(ctx context.Context, ue *updateExpr) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       strKey(fieldDeviceID, s.deviceID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update session item: %w", err)
	}
	return nil
}
