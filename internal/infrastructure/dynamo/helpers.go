package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-photo-share/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// guardItem is the placeholder row that reserves a unique value in the users table.
func guardItem(field, value, ownerID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrUserID:  &types.AttributeValueMemberS{Value: field + "#" + value},
		attrOwnerID: &types.AttributeValueMemberS{Value: ownerID},
	}
}

// conditionalPut wraps an item in a transactional put that fails if the key is taken.
func conditionalPut(table string, item map[string]types.AttributeValue) types.TransactWriteItem {
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(table),
			Item:                item,
			ConditionExpression: aws.String(conditionNotExist),
		},
	}
}

// duplicateField maps the cancellation reasons of the user-create transaction
// (user, username guard, email guard, in that order) to the colliding field.
// ok is false when no condition check failed.
func duplicateField(reasons []types.CancellationReason) (field string, ok bool) {
	fields := []string{"", domain.FieldUsername, domain.FieldEmail}
	for i, r := range reasons {
		if i >= len(fields) || aws.ToString(r.Code) != "ConditionalCheckFailed" {
			continue
		}
		return fields[i], true
	}
	return "", false
}
