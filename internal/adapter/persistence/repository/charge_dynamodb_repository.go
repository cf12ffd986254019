package repository

import (
	"context"
	"errors"
	"time"

	"nexus_pix/internal/domain/entities"
	"nexus_pix/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const defaultChargesTableName = "pix_charges"

type chargeItem struct {
	ID           string `dynamodbav:"id"`
	OrderID      string `dynamodbav:"order_id"`
	Provider     string `dynamodbav:"provider"`
	Status       string `dynamodbav:"status"`
	RawStatus    string `dynamodbav:"raw_status,omitempty"`
	CopyPaste    string `dynamodbav:"copy_paste"`
	QRCodeBase64 string `dynamodbav:"qr_code_base64,omitempty"`
	Amount       string `dynamodbav:"amount"`
	BuyerEmail   string `dynamodbav:"buyer_email,omitempty"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
	PayloadRaw   string `dynamodbav:"gateway_payload_raw,omitempty"`
}

// ChargeDynamoRepository persists PIX charges in DynamoDB.
//
// Table requirements:
//   - PK: id (string), the gateway transaction id
type ChargeDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
	now       func() time.Time
}

var _ interfaces.IChargeRepository = (*ChargeDynamoRepository)(nil)

func NewChargeDynamoRepository(ddb *dynamodb.Client, tableName string) *ChargeDynamoRepository {
	if tableName == "" {
		tableName = defaultChargesTableName
	}
	return &ChargeDynamoRepository{
		ddb:       ddb,
		tableName: tableName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (r *ChargeDynamoRepository) Create(ctx context.Context, c entities.Charge) (entities.Charge, error) {
	av, err := attributevalue.MarshalMap(toChargeItem(c))
	if err != nil {
		return entities.Charge{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Charge{}, err
	}
	return c, nil
}

func (r *ChargeDynamoRepository) GetByID(ctx context.Context, id string) (entities.Charge, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Charge{}, err
	}
	if len(out.Item) == 0 {
		return entities.Charge{}, nil
	}

	var it chargeItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Charge{}, err
	}
	return fromChargeItem(it), nil
}

// UpdateStatus writes a terminal status only while the stored charge is still
// pending. A failed condition is not an error: the current item is returned
// with transitioned=false.
func (r *ChargeDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.ChargeStatus, rawStatus string) (entities.Charge, bool, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND #status = :pending"),
		UpdateExpression:    aws.String("SET #status = :status, #raw_status = :raw_status, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#status":     "status",
			"#raw_status": "raw_status",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending":    &types.AttributeValueMemberS{Value: string(entities.ChargeStatusPending)},
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":raw_status": &types.AttributeValueMemberS{Value: rawStatus},
			":updated_at": &types.AttributeValueMemberS{Value: r.now().Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			current, getErr := r.GetByID(ctx, id)
			return current, false, getErr
		}
		return entities.Charge{}, false, err
	}

	var it chargeItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Charge{}, false, err
	}
	return fromChargeItem(it), true, nil
}

func toChargeItem(c entities.Charge) chargeItem {
	return chargeItem{
		ID:           c.TransactionID,
		OrderID:      c.OrderID,
		Provider:     c.Provider,
		Status:       string(c.Status),
		RawStatus:    c.RawStatus,
		CopyPaste:    c.CopyPaste,
		QRCodeBase64: c.QRCodeBase64,
		Amount:       c.Amount.StringFixed(2),
		BuyerEmail:   c.BuyerEmail,
		CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    c.UpdatedAt.UTC().Format(time.RFC3339Nano),
		PayloadRaw:   string(c.GatewayPayloadRaw),
	}
}

func fromChargeItem(it chargeItem) entities.Charge {
	created, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updated, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	amount, _ := decimal.NewFromString(it.Amount)

	c := entities.Charge{
		TransactionID: it.ID,
		OrderID:       it.OrderID,
		Provider:      it.Provider,
		Status:        entities.ChargeStatus(it.Status),
		RawStatus:     it.RawStatus,
		CopyPaste:     it.CopyPaste,
		QRCodeBase64:  it.QRCodeBase64,
		Amount:        amount,
		BuyerEmail:    it.BuyerEmail,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}
	if it.PayloadRaw != "" {
		c.GatewayPayloadRaw = []byte(it.PayloadRaw)
	}
	return c
}
