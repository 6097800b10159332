package validators

import "go.mongodb.org/mongo-driver/bson"

var TenantValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"subdomain",
			"industry_module",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": uuidString,

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"subdomain": bson.M{
				"bsonType": "string",
				"pattern":  "^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$",
			},

			"industry_module": bson.M{
				"bsonType": "string",
			},

			"feature_toggles": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "bool",
				},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"tenant_id",
			"email",
			"role",
			"password_hash",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":       uuidString,
			"tenant_id": uuidString,

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 320,
			},

			"role": bson.M{
				"bsonType": "string",
				"enum": []string{
					"platform_admin",
					"tenant_admin",
					"staff",
					"member",
				},
			},

			"membership_tier": bson.M{
				"bsonType": "string",
				"enum":     []string{"basic", "premium", "enterprise"},
			},

			"password_hash": bson.M{
				"bsonType":  "string",
				"minLength": 20,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
