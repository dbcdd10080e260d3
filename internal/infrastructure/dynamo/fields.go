package dynamo

// DynamoDB attribute names used across the sessions table.
const (
	fieldDeviceID  = "device_id"
	fieldUpdatedAt = "updated_at"
)
