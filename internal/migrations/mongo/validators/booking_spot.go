package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingSpotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},

			"address": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"url": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 320,
			},

			"tel": bson.M{
				"bsonType":  "string",
				"maxLength": 32,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
