package domain

// Level is one of the ordered career grades, FC-03 (lowest) through
// FC-06 (highest). The target level drives which competencies are in
// scope for a user.
type Level string

const (
	LevelFC03 Level = "FC-03"
	LevelFC04 Level = "FC-04"
	LevelFC05 Level = "FC-05"
	LevelFC06 Level = "FC-06"
)

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{LevelFC03, LevelFC04, LevelFC05, LevelFC06}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	switch l {
	case LevelFC03, LevelFC04, LevelFC05, LevelFC06:
		return true
	}
	return false
}

// Category classifies a competency.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
	CategoryStrategic  Category = "strategic"
)

// Categories returns all competency categories.
func Categories() []Category {
	return []Category{CategoryTechnical, CategoryBehavioral, CategoryStrategic}
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBehavioral, CategoryStrategic:
		return true
	}
	return false
}

// IntentionStatus is the lifecycle state of a course intention.
// Intentions start as StatusIntended and may be advanced explicitly.
type IntentionStatus string

const (
	StatusIntended   IntentionStatus = "intended"
	StatusRegistered IntentionStatus = "registered"
	StatusCompleted  IntentionStatus = "completed"
	StatusCancelled  IntentionStatus = "cancelled"
)

// IntentionStatuses returns all intention statuses.
func IntentionStatuses() []IntentionStatus {
	return []IntentionStatus{StatusIntended, StatusRegistered, StatusCompleted, StatusCancelled}
}

// Valid reports whether s is one of the defined statuses.
func (s IntentionStatus) Valid() bool {
	switch s {
	case StatusIntended, StatusRegistered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
