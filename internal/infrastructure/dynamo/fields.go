package dynamo

// DynamoDB attribute and index names shared by the repos and Bootstrap.
const (
	attrUserID    = "user_id"
	attrPostID    = "post_id"
	attrUsername  = "username"
	attrEmail     = "email"
	attrCreatedAt = "created_at"
	attrOwnerID   = "owner_id"

	indexUsername     = "username-index"
	indexEmail        = "email-index"
	indexUserPosts    = "user_id-created_at-index"
	conditionNotExist = "attribute_not_exists(user_id)"
)
