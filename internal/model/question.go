package model

import "time"

// Question statuses. A question starts pending, becomes answered as
// soon as it has at least one answer, and drops back to pending when
// the last answer is removed. Moderation can force removed, which
// dominates the derived status.
const (
    StatusPending  = "pending"
    StatusAnswered = "answered"
    StatusRemoved  = "removed"
)

// ModerationRemoved is the action string stamped on soft-removed content.
const ModerationRemoved = "removed"

// RedactedAnswerText replaces an answer's text when moderation removes
// it. The original text is overwritten, not retained.
const RedactedAnswerText = "[This answer has been removed by moderation]"

// Question is the unit of content storage: one JSON document per
// question, embedding its answers and flags. Unlike the other model
// types it carries json tags, because the struct is both the stored
// document (questions.doc) and the wire representation.
//
// Answers are not independently addressable documents; locating one by
// its id requires scanning the collection (see repository.QuestionRepo).
type Question struct {
    ID        string    `json:"id"`
    UserID    string    `json:"userId"`
    Title     string    `json:"title"`
    Caption   string    `json:"caption"`
    MediaURL  string    `json:"mediaUrl"`
    MediaType string    `json:"mediaType"`
    Timestamp time.Time `json:"timestamp"`
    Status    string    `json:"status"`
    Answers   []Answer  `json:"answers"`
    Flags     []Flag    `json:"flags,omitempty"`

    // Moderation overlay. Set only when an admin soft-removes the
    // question; the document itself is retained.
    Moderated        bool       `json:"moderated,omitempty"`
    ModeratedBy      string     `json:"moderatedBy,omitempty"`
    ModeratedAt      *time.Time `json:"moderatedAt,omitempty"`
    ModerationAction string     `json:"moderationAction,omitempty"`
}

// Answer is embedded in a Question's answer list. AnswerID is unique
// within the parent; global uniqueness is not enforced by storage.
type Answer struct {
    AnswerID     string     `json:"answerId"`
    UserID       string     `json:"userId"`
    TextResponse string     `json:"textResponse"`
    MediaURL     string     `json:"mediaUrl,omitempty"`
    Timestamp    time.Time  `json:"timestamp"`
    UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
    UpdatedBy    string     `json:"updatedBy,omitempty"`

    Moderated        bool       `json:"moderated,omitempty"`
    ModeratedBy      string     `json:"moderatedBy,omitempty"`
    ModeratedAt      *time.Time `json:"moderatedAt,omitempty"`
    ModerationAction string     `json:"moderationAction,omitempty"`
    Flags            []Flag     `json:"flags,omitempty"`
}

// Flag is an append-only moderation annotation. Flags are never
// removed, and repeated flagging appends duplicates.
type Flag struct {
    FlaggedBy string    `json:"flaggedBy"`
    FlaggedAt time.Time `json:"flaggedAt"`
    Reason    string    `json:"reason"`
}
