package entity

// State is the position of a user's conversation in the ordering flow.
type State int

const (
	MainMenu State = iota
	Catalog
	SelectingQuantity
	UsePoints
	DeliveryMethodSelect
	OrderComment
	EnterUserData
	ConfirmOrder
	AdminTrackingInput
)

var stateNames = map[State]string{
	MainMenu:             "main_menu",
	Catalog:              "catalog",
	SelectingQuantity:    "selecting_quantity",
	UsePoints:            "use_points",
	DeliveryMethodSelect: "delivery_method",
	OrderComment:         "order_comment",
	EnterUserData:        "enter_user_data",
	ConfirmOrder:         "confirm_order",
	AdminTrackingInput:   "admin_tracking_input",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// DraftOrder is an order under construction. OrderID is assigned on the
// first commit attempt so that retries stay idempotent.
type DraftOrder struct {
	OrderID        string  `json:"order_id,omitempty"`
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	BaseTotal      float64 `json:"base_total"`
	PointsUsed     int64   `json:"points_used"`
	PointsValue    float64 `json:"points_value"`
	FinalPrice     float64 `json:"final_price"`
	DeliveryMethod string  `json:"delivery_method,omitempty"`
	UserData       string  `json:"user_data,omitempty"`
	Comment        string  `json:"comment,omitempty"`
	Notified       bool    `json:"notified,omitempty"`
}

// TrackingTarget is the pending admin action of attaching a tracking
// code to a buyer's order.
type TrackingTarget struct {
	UserID  string `json:"user_id"`
	OrderID string `json:"order_id"`
}

// Session is the per-user conversation state. It is owned exclusively by
// the turn currently processing that user; the engine serializes turns
// per user id.
type Session struct {
	UserID   string          `json:"user_id"`
	UserName string          `json:"user_name,omitempty"`
	State    State           `json:"state"`
	Category string          `json:"category,omitempty"`
	Draft    *DraftOrder     `json:"draft,omitempty"`
	Tracking *TrackingTarget `json:"tracking,omitempty"`
}

// Reset returns the session to the main menu and drops all transient
// flow data.
func (s *Session) Reset() {
	s.State = MainMenu
	s.Category = ""
	s.Draft = nil
	s.Tracking = nil
}

// Callback is the single structured (non-text) inbound action: an admin
// requesting to attach a tracking code to a buyer's order.
type Callback struct {
	Action       string `json:"action"`
	TargetUserID string `json:"target_user_id"`
	OrderID      string `json:"order_id"`
}

// Inbound is one event from the messaging transport.
type Inbound struct {
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name,omitempty"`
	Text     string    `json:"text,omitempty"`
	Callback *Callback `json:"callback,omitempty"`
}

// Outbound is one message to send back through the transport. Options is
// the quick-reply vocabulary the user may answer with; free text is also
// accepted in states that parse it.
type Outbound struct {
	UserID  string   `json:"user_id"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}
