package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WidgetType identifies a dashboard capability category
type WidgetType string

const (
	WidgetAttendance    WidgetType = "attendance"
	WidgetFitness       WidgetType = "fitness"
	WidgetScheduling    WidgetType = "scheduling"
	WidgetTeams         WidgetType = "teams"
	WidgetGrading       WidgetType = "grading"
	WidgetLessons       WidgetType = "lessons"
	WidgetAssessment    WidgetType = "assessment"
	WidgetCommunication WidgetType = "communication"
)

// widgetCatalog maps widget types to their display titles
var widgetCatalog = map[WidgetType]string{
	WidgetAttendance:    "Attendance Tracker",
	WidgetFitness:       "Fitness Monitor",
	WidgetScheduling:    "Class Scheduler",
	WidgetTeams:         "Team Builder",
	WidgetGrading:       "Grade Book",
	WidgetLessons:       "Lesson Planner",
	WidgetAssessment:    "Assessment Hub",
	WidgetCommunication: "Parent Communication",
}

// KnownWidgetTypes returns all widget types in catalog order
func KnownWidgetTypes() []WidgetType {
	return []WidgetType{
		WidgetAttendance,
		WidgetFitness,
		WidgetScheduling,
		WidgetTeams,
		WidgetGrading,
		WidgetLessons,
		WidgetAssessment,
		WidgetCommunication,
	}
}

// IsKnownWidgetType reports whether t is in the catalog
func IsKnownWidgetType(t WidgetType) bool {
	_, ok := widgetCatalog[t]
	return ok
}

// DisplayName returns the display title for a widget type. Unknown types
// fall back to the raw type string with the first letter upper-cased.
func (t WidgetType) DisplayName() string {
	if name, ok := widgetCatalog[t]; ok {
		return name
	}
	s := string(t)
	if s == "" {
		return "Widget"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WidgetSize is one of the four fixed card sizes
type WidgetSize string

const (
	SizeSmall      WidgetSize = "small"
	SizeMedium     WidgetSize = "medium"
	SizeLarge      WidgetSize = "large"
	SizeExtraLarge WidgetSize = "extra-large"
)

// sizeCycle is the resize progression; it wraps
var sizeCycle = []WidgetSize{SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge}

// NormalizeSize maps unrecognized or legacy size values to medium
func NormalizeSize(s WidgetSize) WidgetSize {
	for _, known := range sizeCycle {
		if s == known {
			return s
		}
	}
	return SizeMedium
}

// NextSize advances a size one step through the cycle. Unrecognized values
// normalize to medium before the advance, so the first resize from a bad
// stored state always lands on large.
func NextSize(s WidgetSize) WidgetSize {
	s = NormalizeSize(s)
	for i, known := range sizeCycle {
		if s == known {
			return sizeCycle[(i+1)%len(sizeCycle)]
		}
	}
	return SizeLarge
}

// WidgetOrigin records where a widget record was created
type WidgetOrigin string

const (
	OriginLocal  WidgetOrigin = "local"
	OriginServer WidgetOrigin = "server"
)

// localIDPrefix marks locally generated widget ids. It survives only to tag
// legacy records persisted before the origin field existed.
const localIDPrefix = "local-"

// NewWidgetID generates a locally unique widget id
func NewWidgetID() string {
	return localIDPrefix + uuid.NewString()
}

// Widget represents one dashboard card
type Widget struct {
	ID        string        `json:"id" yaml:"id"`
	Type      WidgetType    `json:"type" yaml:"type"`
	Name      string        `json:"name" yaml:"name"`
	Size      WidgetSize    `json:"size" yaml:"size"`
	Origin    WidgetOrigin  `json:"origin,omitempty" yaml:"origin,omitempty"`
	Payload   WidgetPayload `json:"data,omitempty" yaml:"data,omitempty"`
	Position  int           `json:"position,omitempty" yaml:"position,omitempty"`
	CreatedAt time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewWidget constructs a widget with catalog defaults
func NewWidget(t WidgetType) *Widget {
	now := time.Now().UTC()
	return &Widget{
		ID:        NewWidgetID(),
		Type:      t,
		Name:      t.DisplayName(),
		Size:      SizeMedium,
		Origin:    OriginLocal,
		Payload:   EmptyPayload(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize repairs a widget loaded from storage: size falls back to medium,
// name is rederived from type when blank, and records persisted before the
// origin field are tagged by id prefix.
func (w *Widget) Normalize() {
	w.Size = NormalizeSize(w.Size)
	if w.Name == "" {
		w.Name = w.Type.DisplayName()
	}
	if w.Origin == "" {
		if strings.HasPrefix(w.ID, localIDPrefix) {
			w.Origin = OriginLocal
		} else {
			w.Origin = OriginServer
		}
	}
}

// ChatRole identifies the author of a transcript entry
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one transcript entry
type ChatMessage struct {
	Role      ChatRole  `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// DisplayIdentity is the resolved user identity shown in the UI
type DisplayIdentity struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Session holds the credential state for one controller lifetime
type Session struct {
	Token string          `json:"-"`
	User  DisplayIdentity `json:"user"`
	Guest bool            `json:"guest"`
}

// Authenticated reports whether the session carries a credential
func (s *Session) Authenticated() bool {
	return s != nil && !s.Guest && s.Token != ""
}

// ParseWidgets decodes a persisted widget array. Decoding is all or
// nothing: any error yields an empty set, not a partial recovery.
func ParseWidgets(raw string) []*Widget {
	if raw == "" {
		return nil
	}
	var widgets []*Widget
	if err := json.Unmarshal([]byte(raw), &widgets); err != nil {
		LogWarn("Discarding corrupt widget state: %v", err)
		return nil
	}
	for _, w := range widgets {
		w.Normalize()
	}
	return widgets
}

// EncodeWidgets serializes the full widget set as one JSON document
func EncodeWidgets(widgets []*Widget) (string, error) {
	data, err := json.Marshal(widgets)
	if err != nil {
		return "", fmt.Errorf("failed to encode widgets: %w", err)
	}
	return string(data), nil
}
