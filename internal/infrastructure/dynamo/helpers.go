package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// updateExpr is a compiled UpdateExpression with its placeholder maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// update collects the clauses of an UpdateItem call.
type update struct {
	set         map[string]interface{}
	setIfAbsent map[string]interface{}
	remove      []string
}

// build renders SET, if_not_exists SET and REMOVE clauses. Fields are emitted
// in sorted order so the expression is deterministic.
func (u update) build() (*updateExpr, error) {
	ue := &updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}
	var sets, removes []string
	i := 0

	bind := func(field string, v interface{}) (string, string, error) {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return "", "", fmt.Errorf("marshal field %s: %w", field, err)
		}
		ue.Names[nameKey] = field
		ue.Values[valueKey] = av
		i++
		return nameKey, valueKey, nil
	}

	for _, k := range sortedKeys(u.set) {
		n, v, err := bind(k, u.set[k])
		if err != nil {
			return nil, err
		}
		sets = append(sets, fmt.Sprintf("%s = %s", n, v))
	}
	for _, k := range sortedKeys(u.setIfAbsent) {
		n, v, err := bind(k, u.setIfAbsent[k])
		if err != nil {
			return nil, err
		}
		sets = append(sets, fmt.Sprintf("%s = if_not_exists(%s, %s)", n, n, v))
	}
	rm := append([]string(nil), u.remove...)
	sort.Strings(rm)
	for _, k := range rm {
		nameKey := fmt.Sprintf("#f%d", i)
		ue.Names[nameKey] = k
		removes = append(removes, nameKey)
		i++
	}

	if i == 0 {
		return nil, errors.New("no fields to update")
	}
	var clauses []string
	if len(sets) > 0 {
		clauses = append(clauses, "SET "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		clauses = append(clauses, "REMOVE "+strings.Join(removes, ", "))
	}
	ue.Expr = strings.Join(clauses, " ")
	return ue, nil
}

// condition adds a ConditionExpression placeholder pair that does not
// collide with the #f/:v placeholders of the update itself.
func (ue *updateExpr) condition(name, field string, value interface{}) error {
	ue.Names["#"+name] = field
	if value == nil {
		return nil
	}
	av, err := attributevalue.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal condition %s: %w", field, err)
	}
	ue.Values[":"+name] = av
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
