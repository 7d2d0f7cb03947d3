package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parse(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestSearch(t *testing.T) {
	t.Run("mot-clé présent", func(t *testing.T) {
		f := New(parse(t, "keyword=chaise")).Search()
		regex, ok := f.FilterDocument()["name"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, "chaise", regex.Pattern)
		assert.Equal(t, "i", regex.Options)
	})

	t.Run("pas de mot-clé", func(t *testing.T) {
		f := New(parse(t, "")).Search()
		assert.Empty(t, f.FilterDocument())
	})
}

func TestFilter(t *testing.T) {
	t.Run("égalité sur un champ quelconque", func(t *testing.T) {
		f := New(parse(t, "category=Electronics")).Filter()
		assert.Equal(t, "Electronics", f.FilterDocument()["category"])
	})

	t.Run("les valeurs numériques restent des nombres", func(t *testing.T) {
		f := New(parse(t, "stock=4")).Filter()
		assert.Equal(t, float64(4), f.FilterDocument()["stock"])
	})

	t.Run("les paramètres réservés ne filtrent pas", func(t *testing.T) {
		f := New(parse(t, "keyword=x&page=2&limit=10&ratings=3&categories=a")).Filter()
		assert.Empty(t, f.FilterDocument())
	})

	t.Run("plage de prix", func(t *testing.T) {
		f := New(parse(t, "price[gte]=100&price[lt]=250")).Filter()
		price, ok := f.FilterDocument()["price"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, bson.M{"$gte": 100.0, "$lt": 250.0}, price)
	})

	t.Run("prix exact", func(t *testing.T) {
		f := New(parse(t, "price=99.99")).Filter()
		price, ok := f.FilterDocument()["price"].(bson.M)
		require.True(t, ok)
		assert.Equal(t, bson.M{"$eq": 99.99}, price)
	})

	t.Run("opérateur de prix inconnu ignoré", func(t *testing.T) {
		f := New(parse(t, "price[between]=100")).Filter()
		assert.NotContains(t, f.FilterDocument(), "price")
	})

	t.Run("valeur de prix non numérique ignorée", func(t *testing.T) {
		f := New(parse(t, "price[gt]=cher")).Filter()
		assert.NotContains(t, f.FilterDocument(), "price")
	})
}

func TestFilterByRating(t *testing.T) {
	f := New(parse(t, "ratings=4")).FilterByRating()
	assert.Equal(t, bson.M{"$gte": 4.0}, f.FilterDocument()["ratings"])

	f = New(parse(t, "ratings=quatre")).FilterByRating()
	assert.NotContains(t, f.FilterDocument(), "ratings")
}

func TestFilterByCategory(t *testing.T) {
	f := New(parse(t, "categories=Electronics,Books")).FilterByCategory()
	assert.Equal(t, bson.M{"$in": []string{"Electronics", "Books"}}, f.FilterDocument()["category"])
}

func TestPaginate(t *testing.T) {
	t.Run("valeurs par défaut", func(t *testing.T) {
		f := New(parse(t, "")).Paginate()
		assert.Equal(t, int64(DefaultPageSize), f.Limit())
		assert.Equal(t, int64(0), f.Skip())
	})

	t.Run("page et limite explicites", func(t *testing.T) {
		f := New(parse(t, "page=3&limit=10")).Paginate()
		assert.Equal(t, int64(10), f.Limit())
		assert.Equal(t, int64(20), f.Skip())
	})

	t.Run("valeurs invalides retombent sur les défauts", func(t *testing.T) {
		f := New(parse(t, "page=-1&limit=abc")).Paginate()
		assert.Equal(t, int64(DefaultPageSize), f.Limit())
		assert.Equal(t, int64(0), f.Skip())
	})
}

// Le même filtre doit servir au comptage total et au listing paginé :
// la pagination ne doit jamais fuiter dans le document de filtre.
func TestFilterDocumentIgnoresPagination(t *testing.T) {
	f := New(parse(t, "keyword=lampe&category=Deco&page=2&limit=3")).
		Search().
		Filter().
		FilterByRating().
		FilterByCategory()

	before := len(f.FilterDocument())
	f.Paginate()

	assert.Len(t, f.FilterDocument(), before)
	assert.Equal(t, int64(3), f.Limit())
	assert.Equal(t, int64(3), f.Skip())
}

func TestPricePart(t *testing.T) {
	op, ok := pricePart("price[gt]")
	assert.True(t, ok)
	assert.Equal(t, "gt", op)

	_, ok = pricePart("prix[gt]")
	assert.False(t, ok)

	_, ok = pricePart("price")
	assert.False(t, ok)
}
