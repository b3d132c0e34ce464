package mongoinfra

import (
	"errors"
	"testing"

	"github.com/go-photo-share/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func dupErr(msg string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: msg}}}
}

func TestDuplicateField_Username(t *testing.T) {
	err := dupErr(`E11000 duplicate key error collection: photoshare.users index: username_1 dup key: { username: "meow1" }`)
	assert.True(t, mongo.IsDuplicateKeyError(err))
	assert.Equal(t, domain.FieldUsername, duplicateField(err))
}

func TestDuplicateField_Email(t *testing.T) {
	err := dupErr(`E11000 duplicate key error collection: photoshare.users index: email_1 dup key: { email: "a@b.com" }`)
	assert.Equal(t, domain.FieldEmail, duplicateField(err))
}

func TestDuplicateField_EmailValueContainsOtherIndexName(t *testing.T) {
	err := dupErr(`E11000 duplicate key error collection: photoshare.users index: email_1 dup key: { email: "username_1@b.com" }`)
	assert.Equal(t, domain.FieldEmail, duplicateField(err))
}

func TestDuplicateField_UsernameValueContainsOtherIndexName(t *testing.T) {
	err := dupErr(`E11000 duplicate key error collection: photoshare.users index: username_1 dup key: { username: "email_1 " }`)
	assert.Equal(t, domain.FieldUsername, duplicateField(err))
}

func TestDuplicateField_PrimaryKey(t *testing.T) {
	err := dupErr(`E11000 duplicate key error collection: photoshare.users index: _id_ dup key: { _id: "x" }`)
	assert.Empty(t, duplicateField(err))
}

func TestDuplicateField_NotAWriteException(t *testing.T) {
	assert.Empty(t, duplicateField(errors.New("boom")))
}
