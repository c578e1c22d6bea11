package db

import (
	"context"
	"fmt"
	"sort"

	"financebackend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBClient is the slice of the DynamoDB API a Table uses.
type DDBClient interface {
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// Record is one table item in its plain decoded form.
type Record map[string]any

// Table addresses a single table keyed by one string attribute.
type Table struct {
	client     DDBClient
	name       string
	primaryKey string
	allPages   bool
}

func NewTable(client DDBClient, cfg config.Config) *Table {
	return &Table{
		client:     client,
		name:       cfg.TableName,
		primaryKey: cfg.PrimaryKey,
		allPages:   cfg.ScanAllPages,
	}
}

func (t *Table) Name() string       { return t.name }
func (t *Table) PrimaryKey() string { return t.primaryKey }

func (t *Table) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		t.primaryKey: &types.AttributeValueMemberS{Value: id},
	}
}

// Delete removes the item with the given key. A missing item is not an error.
func (t *Table) Delete(ctx context.Context, id string) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       t.key(id),
	})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem: %w", err)
	}
	return nil
}

// Scan returns the first scan page, or every page when the table was
// configured with ScanAllPages.
func (t *Table) Scan(ctx context.Context) ([]Record, error) {
	in := &dynamodb.ScanInput{TableName: aws.String(t.name)}

	var items []map[string]types.AttributeValue
	if !t.allPages {
		out, err := t.client.Scan(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("dynamodb Scan: %w", err)
		}
		items = out.Items
	} else {
		p := dynamodb.NewScanPaginator(t.client, in)
		for p.HasMorePages() {
			out, err := p.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("dynamodb Scan: %w", err)
			}
			items = append(items, out.Items...)
		}
	}

	records := make([]Record, 0, len(items))
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("unmarshal scan items: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Get returns nil, nil when no item has the key.
func (t *Table) Get(ctx context.Context, id string) (Record, error) {
	out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(t.name),
		Key:       t.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return rec, nil
}

// Put writes rec as-is. The caller owns the primary-key attribute.
func (t *Table) Put(ctx context.Context, rec Record) error {
	av, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem: %w", err)
	}
	return nil
}

// Update sets every attribute in attrs on the item with the given key.
// Like UpdateItem itself, a missing item gets created.
func (t *Table) Update(ctx context.Context, id string, attrs Record) error {
	if len(attrs) == 0 {
		return fmt.Errorf("update %q: no attributes", id)
	}

	expr, names, values, err := setExpression(attrs)
	if err != nil {
		return err
	}

	_, err = t.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(t.name),
		Key:                       t.key(id),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return fmt.Errorf("dynamodb UpdateItem: %w", err)
	}
	return nil
}

// setExpression builds "SET #a0 = :a0, #a1 = :a1" over attrs in key order.
// Placeholders keep reserved words like "name" or "status" legal.
func setExpression(attrs Record) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue, len(keys))
	expr := "SET "
	for i, k := range keys {
		av, err := attributevalue.Marshal(attrs[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("marshal attribute %q: %w", k, err)
		}
		n := fmt.Sprintf("#a%d", i)
		v := fmt.Sprintf(":a%d", i)
		names[n] = k
		values[v] = av
		if i > 0 {
			expr += ", "
		}
		expr += n + " = " + v
	}
	return expr, names, values, nil
}
