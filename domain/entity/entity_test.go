package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type brand struct {
	Entity
	Name string
}

func (b brand) GetName() string { return b.Name }

func TestEntity_GetID(t *testing.T) {
	b := brand{Entity: Entity{ID: 7}, Name: "Angular"}

	var obj IObject[int64] = b
	assert.Equal(t, int64(7), obj.GetID())

	var named INamed = b
	assert.Equal(t, "Angular", named.GetName())
}

func TestIDs(t *testing.T) {
	items := []brand{{Entity: Entity{ID: 3}}, {Entity: Entity{ID: 1}}}
	assert.Equal(t, []int64{3, 1}, IDs(items))
	assert.Empty(t, IDs([]brand{}))
}
