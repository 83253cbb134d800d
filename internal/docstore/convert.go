package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ywebstudio/newslist/pkg/models"
)

// Conversion from raw records to models. Records come back as loose
// key-value documents; every accessor here tolerates a missing or
// mistyped field and falls back to the zero value.

// ToNewsItem maps a raw news record to a NewsItem. A missing categoryId
// becomes "" and a missing createdAt becomes the zero time.
func ToNewsItem(r Record) models.NewsItem {
	return models.NewsItem{
		ID:         r.ID(),
		Title:      str(r, "title"),
		Content:    str(r, "content"),
		CategoryID: str(r, "categoryId"),
		ChannelID:  str(r, "channelId"),
		CreatedAt:  timestamp(r, "createdAt"),
		ImageURLs:  strs(r, "imageUrls"),
		VideoURLs:  strs(r, "videoUrls"),
		YoutubeURL: str(r, "youtubeUrl"),
	}
}

// ToCategory maps a raw category record. A missing order defaults to 0.
func ToCategory(r Record) models.Category {
	return models.Category{
		ID:    r.ID(),
		Name:  str(r, "name"),
		Order: num(r, "order"),
	}
}

// ToChannel maps a raw channel record.
func ToChannel(r Record) models.Channel {
	return models.Channel{
		ID:          r.ID(),
		Name:        str(r, "name"),
		LogoURL:     str(r, "logoUrl"),
		Description: str(r, "description"),
		Order:       num(r, "order"),
	}
}

// ToPartner maps a raw partner record.
func ToPartner(r Record) models.Partner {
	return models.Partner{
		ID:         r.ID(),
		Name:       str(r, "name"),
		FeedURL:    str(r, "feedUrl"),
		ChannelID:  str(r, "channelId"),
		CategoryID: str(r, "categoryId"),
	}
}

// ToUser maps a raw user record.
func ToUser(r Record) models.User {
	return models.User{
		ID:           r.ID(),
		FirstName:    str(r, "firstName"),
		LastName:     str(r, "lastName"),
		City:         str(r, "city"),
		Email:        str(r, "email"),
		PasswordHash: str(r, "passwordHash"),
		PushToken:    str(r, "pushToken"),
	}
}

func str(r Record, key string) string {
	s, _ := r[key].(string)
	return s
}

func strs(r Record, key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}

func num(r Record, key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// timestamp reads a created-at value in any of the shapes the store
// hands back: a native time, a BSON datetime, epoch seconds, or a
// document-style {seconds} map. Anything else is the zero time.
func timestamp(r Record, key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	case int:
		return secsToTime(int64(v))
	case int32:
		return secsToTime(int64(v))
	case int64:
		return secsToTime(v)
	case float64:
		return secsToTime(int64(v))
	case map[string]any:
		return timestamp(Record(v), "seconds")
	case primitive.M:
		return timestamp(Record(v), "seconds")
	case Record:
		return timestamp(v, "seconds")
	}
	return time.Time{}
}

func secsToTime(s int64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(s, 0).UTC()
}
