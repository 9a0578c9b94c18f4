package domain

// ActivityType categorizes a recorded work activity.
type ActivityType string

const (
	ActivityWork    ActivityType = "WORK"
	ActivityMeeting ActivityType = "MEETING"
	ActivityField   ActivityType = "FIELD"
	ActivityTravel  ActivityType = "TRAVEL"
	ActivityAdmin   ActivityType = "ADMIN"
)

// ActivityTypes lists all valid activity types in display order.
var ActivityTypes = []ActivityType{
	ActivityWork,
	ActivityMeeting,
	ActivityField,
	ActivityTravel,
	ActivityAdmin,
}

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityWork, ActivityMeeting, ActivityField, ActivityTravel, ActivityAdmin:
		return true
	}
	return false
}

// Label returns the human-readable form of the activity type.
func (t ActivityType) Label() string {
	switch t {
	case ActivityWork:
		return "Work"
	case ActivityMeeting:
		return "Meeting"
	case ActivityField:
		return "Field"
	case ActivityTravel:
		return "Travel"
	case ActivityAdmin:
		return "Admin"
	}
	return string(t)
}

// Source identifies which client created a log.
type Source string

const (
	SourceWeb    Source = "WEB"
	SourceMobile Source = "MOBILE"
)

// View selects the reporting window for the log list.
type View string

const (
	ViewToday    View = "today"
	ViewThisWeek View = "this-week"
	ViewLastWeek View = "last-week"
)

// Views lists all views in display order.
var Views = []View{ViewToday, ViewThisWeek, ViewLastWeek}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewToday, ViewThisWeek, ViewLastWeek:
		return true
	}
	return false
}

// Label returns the human-readable form of the view.
func (v View) Label() string {
	switch v {
	case ViewToday:
		return "Today"
	case ViewThisWeek:
		return "This week"
	case ViewLastWeek:
		return "Last week"
	}
	return string(v)
}
