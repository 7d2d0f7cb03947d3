// Package query construit les filtres de listing produits à partir des
// paramètres bruts de la requête. Chaque étape restreint un peu plus le
// filtre ; la pagination arrive toujours en dernier et ne touche pas au
// filtre lui-même, pour que le même document serve au comptage total.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultPageSize = 6

// Paramètres réservés au contrôle de la requête : jamais traduits en
// filtres d'égalité sur les champs produit.
var reservedParams = map[string]bool{
	"keyword":    true,
	"page":       true,
	"limit":      true,
	"ratings":    true,
	"categories": true,
}

// Opérateurs de comparaison acceptés sur le prix (price[gt]=100, ...).
var priceOperators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"eq":  "$eq",
}

type Features struct {
	values url.Values
	filter bson.M
	limit  int64
	skip   int64
}

func New(values url.Values) *Features {
	return &Features{
		values: values,
		filter: bson.M{},
		limit:  DefaultPageSize,
	}
}

// Search restreint aux produits dont le nom contient le mot-clé,
// insensible à la casse. Sans mot-clé, aucun filtre.
func (f *Features) Search() *Features {
	if keyword := f.values.Get("keyword"); keyword != "" {
		f.filter["name"] = primitive.Regex{Pattern: keyword, Options: "i"}
	}
	return f
}

// Filter traduit tous les paramètres non réservés en filtres d'égalité,
// sauf le prix qui accepte une plage d'opérateurs de comparaison.
// Les valeurs d'opérateur non numériques sont ignorées, jamais fatales.
func (f *Features) Filter() *Features {
	priceRange := bson.M{}

	for key, vals := range f.values {
		if reservedParams[key] || len(vals) == 0 {
			continue
		}
		value := vals[0]

		// price[gt]=100 → {price: {$gt: 100}}
		if op, ok := pricePart(key); ok {
			mongoOp, known := priceOperators[op]
			if !known {
				continue
			}
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				priceRange[mongoOp] = n
			}
			continue
		}

		if key == "price" {
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				priceRange["$eq"] = n
			}
			continue
		}

		f.filter[key] = coerce(value)
	}

	if len(priceRange) > 0 {
		f.filter["price"] = priceRange
	}
	return f
}

// FilterByRating garde les produits dont la note moyenne atteint le seuil.
func (f *Features) FilterByRating() *Features {
	if ratings := f.values.Get("ratings"); ratings != "" {
		if n, err := strconv.ParseFloat(ratings, 64); err == nil {
			f.filter["ratings"] = bson.M{"$gte": n}
		}
	}
	return f
}

// FilterByCategory accepte une liste séparée par des virgules.
func (f *Features) FilterByCategory() *Features {
	if categories := f.values.Get("categories"); categories != "" {
		f.filter["category"] = bson.M{"$in": strings.Split(categories, ",")}
	}
	return f
}

// Paginate calcule skip/limit : taille de page 6 par défaut, pages
// numérotées à partir de 1.
func (f *Features) Paginate() *Features {
	size := int64(DefaultPageSize)
	if limit := f.values.Get("limit"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil && n > 0 {
			size = n
		}
	}

	page := int64(1)
	if p := f.values.Get("page"); p != "" {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil && n > 0 {
			page = n
		}
	}

	f.limit = size
	f.skip = size * (page - 1)
	return f
}

// FilterDocument expose le filtre combiné, sans la pagination, pour que
// le même document serve au Find paginé et au CountDocuments total.
func (f *Features) FilterDocument() bson.M {
	return f.filter
}

// FindOptions porte uniquement la tranche paginée.
func (f *Features) FindOptions() *options.FindOptions {
	return options.Find().SetSkip(f.skip).SetLimit(f.limit)
}

func (f *Features) Skip() int64 { return f.skip }

func (f *Features) Limit() int64 { return f.limit }

// pricePart extrait l'opérateur d'une clé de la forme price[op].
func pricePart(key string) (string, bool) {
	if !strings.HasPrefix(key, "price[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	return key[len("price[") : len(key)-1], true
}

// coerce garde les valeurs numériques en nombre pour que la comparaison
// Mongo se fasse sur le bon type (stock=4 doit matcher un int).
func coerce(value string) interface{} {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	return value
}
