// Package webchat builds response payload fragments in the web_chat_v2
// platform schema. Builders are pure constructors; they never touch the
// session or the network.
package webchat

// Platform is the presentation channel tag consumed by the chat widget.
const Platform = "web_chat_v2"

// message_type values of the web_chat_v2 schema.
const (
	messageTypeText         = 0
	messageTypeCards        = 1
	messageTypeQuickReplies = 2
)

// responseType markers. The carousel marker tells the widget to render
// a horizontally scrollable picker instead of a plain card list.
const (
	responseTypeText     = 0
	responseTypeCarousel = 501
)

// Payload is one renderable fulfillment fragment.
type Payload struct {
	ResponseType *int    `json:"responseType,omitempty"`
	Platform     string  `json:"platform"`
	WebChatV2    Content `json:"web_chat_v2"`
}

// Content carries the message body; exactly one of Texts, Cards or
// QuickReplies is populated depending on MessageType.
type Content struct {
	MessageType  int          `json:"message_type"`
	Type         string       `json:"type"`
	Texts        []string     `json:"texts,omitempty"`
	Cards        []Card       `json:"cards,omitempty"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// Button is a card action: a postback value or an external URL.
type Button struct {
	BtnText  string `json:"btn_text"`
	PostBack string `json:"post_back,omitempty"`
	OpenURL  string `json:"open_url,omitempty"`
}

// PostBackButton returns a button that posts its own label back.
func PostBackButton(text string) Button {
	return Button{BtnText: text, PostBack: text}
}

// LinkButton returns a button that opens an external URL.
func LinkButton(text, url string) Button {
	return Button{BtnText: text, OpenURL: url}
}

// Card is one selectable card.
type Card struct {
	Buttons  []Button `json:"buttons"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Src      string   `json:"src,omitempty"`
}

// QuickReply is one group of tappable reply shortcuts.
type QuickReply struct {
	Title   string   `json:"title"`
	Replies []string `json:"replies"`
}

// Text renders one of the given texts. Passing several texts lets the
// widget pick one at random.
func Text(texts ...string) Payload {
	rt := responseTypeText
	return Payload{
		ResponseType: &rt,
		Platform:     Platform,
		WebChatV2: Content{
			MessageType: messageTypeText,
			Type:        "message",
			Texts:       texts,
		},
	}
}

// Cards renders a plain list of cards.
func Cards(cards ...Card) Payload {
	return Payload{
		Platform: Platform,
		WebChatV2: Content{
			MessageType: messageTypeCards,
			Type:        "message",
			Cards:       cards,
		},
	}
}

// Carousel renders cards as a horizontally scrollable picker.
func Carousel(cards ...Card) Payload {
	rt := responseTypeCarousel
	return Payload{
		ResponseType: &rt,
		Platform:     Platform,
		WebChatV2: Content{
			MessageType: messageTypeCards,
			Type:        "message",
			Cards:       cards,
		},
	}
}

// QuickRepliesMessage renders a titled group of reply shortcuts.
func QuickRepliesMessage(title string, replies ...string) Payload {
	return Payload{
		Platform: Platform,
		WebChatV2: Content{
			MessageType: messageTypeQuickReplies,
			Type:        "message",
			QuickReplies: []QuickReply{
				{Title: title, Replies: replies},
			},
		},
	}
}
