package model

// Group organizes Units (including Consoles) and Talkgroups under a shared
// priority and an optional placement area.
type Group struct {
	ID           int
	Alias        string
	UnitIDs      []int
	TalkgroupIDs []int
	Priority     EventPriority
	Area         *OperationalArea
}
