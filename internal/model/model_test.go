package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sessions and chat messages are exclusively owned by their user and must
// go away with the account. The constraint lives in the model tags so
// AutoMigrate creates the foreign keys.
func TestOwnedModelsCascadeOnUserDelete(t *testing.T) {
	owned := []reflect.Type{
		reflect.TypeOf(Session{}),
		reflect.TypeOf(ChatMessage{}),
	}

	for _, typ := range owned {
		t.Run(typ.Name(), func(t *testing.T) {
			field, ok := typ.FieldByName("User")
			require.True(t, ok, "missing User association")
			tag := field.Tag.Get("gorm")
			assert.Contains(t, tag, "foreignKey:UserId")
			assert.Contains(t, tag, "OnDelete:CASCADE")
		})
	}
}
