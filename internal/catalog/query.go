package catalog

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// BuildSearchQuery construit le filtre de recherche partagé par les
// endpoints de liste : sous-chaîne littérale, insensible à la casse,
// OR logique sur les champs donnés. Le terme est échappé pour ne jamais
// être interprété comme une expression régulière.
func BuildSearchQuery(search string, fields []string) bson.M {
	if search == "" || len(fields) == 0 {
		return bson.M{}
	}

	pattern := regexp.QuoteMeta(search)
	or := make([]bson.M, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}
