package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Dynamo wraps the DynamoDB client with marshal/unmarshal helpers shared
// by every store in this package.
type Dynamo struct {
	Client *dynamodb.Client
	log    *zap.Logger
}

// NewDynamo builds the shared wrapper around a configured client.
func NewDynamo(client *dynamodb.Client, log *zap.Logger) *Dynamo {
	return &Dynamo{Client: client, log: log}
}

// GetItem loads a single record by primary key into out. Returns false
// when the record does not exist.
func (d *Dynamo) GetItem(ctx context.Context, table string, key map[string]types.AttributeValue, out interface{}) (bool, error) {
	resp, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		d.log.Error("dynamodb get failed", zap.String("table", table), zap.Error(err))
		return false, fmt.Errorf("get item from %s: %w", table, err)
	}
	if resp.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(resp.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal item from %s: %w", table, err)
	}
	return true, nil
}

// PutItem writes the full record, replacing any existing item with the
// same key.
func (d *Dynamo) PutItem(ctx context.Context, table string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", table, err)
	}
	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		d.log.Error("dynamodb put failed", zap.String("table", table), zap.Error(err))
		return fmt.Errorf("put item into %s: %w", table, err)
	}
	return nil
}

// DeleteItem removes a record by primary key. Deleting a missing record
// is not an error.
func (d *Dynamo) DeleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error {
	_, err := d.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		d.log.Error("dynamodb delete failed", zap.String("table", table), zap.Error(err))
		return fmt.Errorf("delete item from %s: %w", table, err)
	}
	return nil
}

// Scan runs a filtered scan over the whole table, following pagination,
// and unmarshals the matching items into out (a pointer to a slice).
func (d *Dynamo) Scan(ctx context.Context, table, filterExpr string, values map[string]types.AttributeValue, names map[string]string, out interface{}) error {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: startKey,
		}
		if filterExpr != "" {
			input.FilterExpression = aws.String(filterExpr)
			input.ExpressionAttributeValues = values
		}
		if len(names) > 0 {
			input.ExpressionAttributeNames = names
		}
		resp, err := d.Client.Scan(ctx, input)
		if err != nil {
			d.log.Error("dynamodb scan failed", zap.String("table", table), zap.Error(err))
			return fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, resp.Items...)
		if resp.LastEvaluatedKey == nil {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal scan results from %s: %w", table, err)
	}
	return nil
}

// QueryIndex queries a GSI with the given key condition and unmarshals
// the results into out (a pointer to a slice).
func (d *Dynamo) QueryIndex(ctx context.Context, table, index, keyCond string, values map[string]types.AttributeValue, names map[string]string, scanForward bool, out interface{}) error {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(table),
			IndexName:                 aws.String(index),
			KeyConditionExpression:    aws.String(keyCond),
			ExpressionAttributeValues: values,
			ScanIndexForward:          aws.Bool(scanForward),
			ExclusiveStartKey:         startKey,
		}
		if len(names) > 0 {
			input.ExpressionAttributeNames = names
		}
		resp, err := d.Client.Query(ctx, input)
		if err != nil {
			d.log.Error("dynamodb query failed", zap.String("table", table), zap.String("index", index), zap.Error(err))
			return fmt.Errorf("query %s/%s: %w", table, index, err)
		}
		items = append(items, resp.Items...)
		if resp.LastEvaluatedKey == nil {
			break
		}
		startKey = resp.LastEvaluatedKey
	}
	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal query results from %s: %w", table, err)
	}
	return nil
}

// idKey builds the primary-key map every table in this service shares.
func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
