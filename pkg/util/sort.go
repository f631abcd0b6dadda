package util

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

func GetCreatedSortBson(sort string) bson.D {
	value := -1
	key := "created_at"

	if strings.Contains(sort, "asc") {
		value = 1
	}
	return bson.D{{Key: key, Value: value}}
}
