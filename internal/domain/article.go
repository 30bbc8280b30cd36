package domain

import "time"

// Article is one normalized news item ready for classification and delivery.
// Immutable once produced by the normalizer.
type Article struct {
	Title       string
	Description string
	Link        string
	Published   time.Time
	SourceName  string
	Categories  []string
}

// Message is a rendered, translated article ready to hand to the chat gateway.
type Message struct {
	Title         string
	Description   string
	OriginalTitle string
	Link          string
	SourceName    string
	Published     time.Time
}

// Capabilities describes what the bot may do in a channel, resolved at
// delivery time because permissions can change between runs.
type Capabilities struct {
	CanSendMessages bool
	CanEmbedLinks   bool
}

// DeliveryReport summarizes one pipeline run for logging and the status command.
type DeliveryReport struct {
	Targets           int
	SuccessfulTargets int
	SkippedTargets    int
	ArticlesSent      int
	WatermarkAdvanced bool
}
