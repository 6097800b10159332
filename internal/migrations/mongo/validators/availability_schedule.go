package validators

import "go.mongodb.org/mongo-driver/bson"

var clockPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`

var AvailabilityScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"resource_id",
			"day_of_week",
			"start_time",
			"end_time",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":         uuidString,
			"tenant_id":   uuidString,
			"resource_id": uuidString,

			// Monday is 0.
			"day_of_week": bson.M{
				"bsonType": integer,
				"minimum":  0,
				"maximum":  6,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  clockPattern,
			},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"holder", "expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^booking_lock_",
			},
			"holder": uuidString,
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
