// Package queue defines the workflow event payloads exchanged over the
// message broker and the background consumer that forwards them to the
// workflow-automation webhook.
package queue

// Trigger type discriminators carried in every event payload. The
// downstream workflow dispatches on this field.
const (
    TriggerNewQuestion = "new_question"
    TriggerNewAnswer   = "new_answer"
    TriggerModeration  = "content_moderation"
)

// WorkflowQueueName is the durable queue events are published to.
const WorkflowQueueName = "workflow.events"

// QuestionCreatedEvent is published when a new question is posted.
type QuestionCreatedEvent struct {
    QuestionID  string `json:"questionId"`
    UserID      string `json:"userId"`
    Title       string `json:"title"`
    MediaURL    string `json:"mediaUrl"`
    MediaType   string `json:"mediaType"`
    Timestamp   string `json:"timestamp"`
    TriggerType string `json:"triggerType"`
}

// AnswerCreatedEvent is published when an answer is added to a question.
type AnswerCreatedEvent struct {
    QuestionID   string `json:"questionId"`
    AnswerID     string `json:"answerId"`
    UserID       string `json:"userId"`
    TextResponse string `json:"textResponse"`
    MediaURL     string `json:"mediaUrl"`
    Timestamp    string `json:"timestamp"`
    TriggerType  string `json:"triggerType"`
}

// ModerationEvent is published when an admin moderates content.
type ModerationEvent struct {
    TargetType  string `json:"targetType"`
    TargetID    string `json:"targetId"`
    Action      string `json:"action"`
    ModeratorID string `json:"moderatorId"`
    Timestamp   string `json:"timestamp"`
    TriggerType string `json:"triggerType"`
}
