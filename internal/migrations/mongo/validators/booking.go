package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"user_id",
			"resource_id",
			"start_time",
			"end_time",
			"status",
			"attendees",
			"is_recurring",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":         uuidString,
			"tenant_id":   uuidString,
			"user_id":     uuidString,
			"resource_id": uuidString,

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
				},
			},

			"attendees": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"total_cost": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"is_recurring": bson.M{
				"bsonType": "bool",
			},

			"recurring_pattern": bson.M{
				"bsonType": "object",
				"required": []string{"type", "occurrences"},
				"properties": bson.M{
					"type": bson.M{
						"bsonType": "string",
						"enum":     []string{"daily", "weekly", "monthly"},
					},
					"occurrences": bson.M{
						"bsonType": integer,
						"minimum":  1,
					},
				},
			},

			"parent_booking_id": uuidString,

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
