package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"name",
			"type",
			"amenities",
			"is_bookable",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":       uuidString,
			"tenant_id": uuidString,

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"type": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"parent_id": bson.M{
				"bsonType": "string",
			},

			"capacity": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"amenities": bson.M{
				"bsonType": "array",
				"maxItems": 100,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"hourly_rate": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"daily_rate": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"member_discount": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  100,
			},

			"premium_member_discount": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  100,
			},

			"is_bookable": bson.M{
				"bsonType": "bool",
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"min_booking_duration": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"max_booking_duration": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"advance_booking_days": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},
		},
	},
}
