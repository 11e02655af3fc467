package models

// Message is a short text post made by an account. TimePostedEpoch is supplied
// by the caller at creation time, not assigned by the server.
type Message struct {
	ID              int    `gorm:"column:message_id;primaryKey" json:"id"`
	PostedBy        int    `gorm:"column:posted_by;not null" json:"posted_by"`
	MessageText     string `gorm:"column:message_text;not null" json:"message_text"`
	TimePostedEpoch int64  `gorm:"column:time_posted_epoch" json:"time_posted_epoch"`
}

// TableName maps Message onto the pre-provisioned message table.
func (Message) TableName() string {
	return "message"
}
