package validators

import "go.mongodb.org/mongo-driver/bson"

// Go ints are stored as int32 when they fit and int64 otherwise.
var integer = []string{"int", "long"}

var uuidString = bson.M{
	"bsonType":  "string",
	"minLength": 36,
	"maxLength": 36,
}
