package models

import "time"

// NewsItem is a single news document as shown in the feed.
// A zero CreatedAt means the document carried no timestamp; it sorts
// after every dated item (treated as epoch 0).
type NewsItem struct {
	ID         string    `json:"id" bson:"_id"`
	Title      string    `json:"title" bson:"title"`
	Content    string    `json:"content" bson:"content"`
	CategoryID string    `json:"category_id" bson:"categoryId"`
	ChannelID  string    `json:"channel_id,omitempty" bson:"channelId,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
	ImageURLs  []string  `json:"image_urls,omitempty" bson:"imageUrls,omitempty"`
	VideoURLs  []string  `json:"video_urls,omitempty" bson:"videoUrls,omitempty"`
	YoutubeURL string    `json:"youtube_url,omitempty" bson:"youtubeUrl,omitempty"`
}

// Category is a topical tag users can filter the feed by.
type Category struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Order int    `json:"order" bson:"order"`
}

// Channel is a publisher entity associated with news items.
type Channel struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	LogoURL     string `json:"logo_url,omitempty" bson:"logoUrl,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Order       int    `json:"order" bson:"order"`
}

// Partner is a publisher whose RSS feed is ingested into the news
// collection by the companion ingest tool.
type Partner struct {
	ID         string `json:"id" bson:"_id"`
	Name       string `json:"name" bson:"name"`
	FeedURL    string `json:"feed_url" bson:"feedUrl"`
	ChannelID  string `json:"channel_id,omitempty" bson:"channelId,omitempty"`
	CategoryID string `json:"category_id,omitempty" bson:"categoryId,omitempty"`
}

// User is an account document in the users collection.
type User struct {
	ID           string `json:"id" bson:"_id"`
	FirstName    string `json:"first_name" bson:"firstName"`
	LastName     string `json:"last_name" bson:"lastName"`
	City         string `json:"city,omitempty" bson:"city,omitempty"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	PushToken    string `json:"push_token,omitempty" bson:"pushToken,omitempty"`
}

// InterestProfile is the user's persisted category selection. HasChosen
// flips to true exactly once, the first time a selection is confirmed.
type InterestProfile struct {
	SelectedCategoryIDs []string `json:"selected_category_ids"`
	HasChosen           bool     `json:"has_chosen"`
}
