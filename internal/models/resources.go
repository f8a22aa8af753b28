package models

// Collection names
const (
	CollectionChats     = "chats"
	CollectionDocuments = "documents"
	CollectionEmployees = "employees"
	CollectionExpenses  = "expenses"
	CollectionMeetings  = "meetings"
	CollectionProjects  = "projects"
)

// ChatSchema describes chat messages
var ChatSchema = Schema{
	Name:       "Chat",
	Collection: CollectionChats,
	Prefix:     "/chats",
	Fields: []Field{
		{Name: "message", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "sender", Kind: KindString, Required: true, Match: MatchExact},
		{Name: "timestamp", Kind: KindString, Required: true, Match: MatchExact},
	},
	SearchByID: true,
}

// DocumentSchema describes uploaded documents. Titles are unique.
var DocumentSchema = Schema{
	Name:       "Document",
	Collection: CollectionDocuments,
	Prefix:     "/documents",
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "description", Kind: KindString, Required: true},
		{Name: "uploaded_by", Kind: KindString, Required: true, Match: MatchContains},
	},
	UniqueKey:  []string{"title"},
	SearchByID: true,
}

// EmployeeSchema describes employees. Names are unique.
var EmployeeSchema = Schema{
	Name:       "Employee",
	Collection: CollectionEmployees,
	Prefix:     "/employees",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "position", Kind: KindString, Required: true, Match: MatchExact},
		{Name: "salary", Kind: KindNumber, Required: true, Match: MatchExact},
	},
	UniqueKey:  []string{"name"},
	SearchByID: true,
}

// ExpenseSchema describes expenses
var ExpenseSchema = Schema{
	Name:       "Expense",
	Collection: CollectionExpenses,
	Prefix:     "/expenses",
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "amount", Kind: KindNumber, Required: true},
		{Name: "category", Kind: KindString, Required: true, Match: MatchExact},
		{Name: "incurred_by", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "date", Kind: KindString, Required: true},
	},
	SearchByID: true,
}

// MeetingSchema describes meetings. A title may only be used once per date.
var MeetingSchema = Schema{
	Name:       "Meeting",
	Collection: CollectionMeetings,
	Prefix:     "/meetings",
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "description", Kind: KindString, Required: true},
		{Name: "organizer", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "date", Kind: KindString, Required: true, Match: MatchExact},
		{Name: "start_time", Kind: KindString, Required: true},
		{Name: "end_time", Kind: KindString, Required: true},
		{Name: "attendees", Kind: KindStringList, Required: true},
	},
	UniqueKey:        []string{"title", "date"},
	DuplicateMessage: "Meeting with this title on the same date already exists",
	SearchByID:       true,
}

// ProjectSchema describes projects. Names are unique; end_date is optional.
var ProjectSchema = Schema{
	Name:       "Project",
	Collection: CollectionProjects,
	Prefix:     "/projects",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Match: MatchContains},
		{Name: "description", Kind: KindString, Required: true},
		{Name: "start_date", Kind: KindString, Required: true},
		{Name: "end_date", Kind: KindString},
		{Name: "status", Kind: KindString, Required: true, Match: MatchExact},
		{Name: "members", Kind: KindStringList, Required: true},
	},
	UniqueKey:  []string{"name"},
	SearchByID: true,
}

// AllSchemas returns every resource in mount order
func AllSchemas() []*Schema {
	return []*Schema{
		&EmployeeSchema,
		&ChatSchema,
		&DocumentSchema,
		&MeetingSchema,
		&ProjectSchema,
		&ExpenseSchema,
	}
}
