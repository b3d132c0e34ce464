package domain

import "time"

type Post struct {
	PostID      string    `json:"id" dynamodbav:"post_id" bson:"_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id" bson:"user_id"`
	Image       string    `json:"image" dynamodbav:"image" bson:"image"`
	ContentType string    `json:"content_type" dynamodbav:"content_type" bson:"content_type"`
	Description string    `json:"description" dynamodbav:"description" bson:"description"`
	Watermarked bool      `json:"watermarked" dynamodbav:"watermarked" bson:"watermarked"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at" bson:"created_at"`
	Author      *Author   `json:"author,omitempty" dynamodbav:"-" bson:"-"`
}

// Author is the public part of a user shown next to a post.
type Author struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}
