package models

import "time"

// Roles stored on User.Role.
const (
	RoleAdmin   = "ADMIN"
	RoleMentor  = "MENTOR"
	RoleStudent = "STUDENT"
)

// User is a login account. Students created by a sync get a STUDENT login.
type User struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;size:254" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string    `gorm:"column:role;size:20;not null" json:"role"`
	FirstName    string    `gorm:"column:first_name;size:150" json:"first_name"`
	LastName     string    `gorm:"column:last_name;size:150" json:"last_name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (User) TableName() string {
	return "users"
}

// Program is an offering a student is enrolled under.
type Program struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;size:100;uniqueIndex;not null" json:"name"`
	Slug        *string `gorm:"column:slug;size:120;uniqueIndex" json:"slug"`
	Description string  `gorm:"column:description;type:text" json:"description"`
}

// TableName overrides the table name.
func (Program) TableName() string {
	return "programs"
}

// SubProgram splits a program by certifying body (e.g. STED, AISECT).
type SubProgram struct {
	ID        uint     `gorm:"column:id;primaryKey" json:"id"`
	ProgramID uint     `gorm:"column:program_id;index;not null" json:"program_id"`
	Program   *Program `gorm:"constraint:OnDelete:CASCADE" json:"program,omitempty"`
	Name      string   `gorm:"column:name;size:100;not null" json:"name"`
}

// TableName overrides the table name.
func (SubProgram) TableName() string {
	return "sub_programs"
}

// Course is a feeable course under a sub-program.
type Course struct {
	ID           uint        `gorm:"column:id;primaryKey" json:"id"`
	SubProgramID uint        `gorm:"column:sub_program_id;index;not null" json:"sub_program_id"`
	SubProgram   *SubProgram `gorm:"constraint:OnDelete:CASCADE" json:"sub_program,omitempty"`
	Name         string      `gorm:"column:name;size:100;not null" json:"name"`
	FeeAmount    float64     `gorm:"column:fee_amount;type:decimal(10,2);default:0" json:"fee_amount"`
}

// TableName overrides the table name.
func (Course) TableName() string {
	return "courses"
}

// Batch is a cohort of one course led by a primary mentor, optionally assisted by
// secondary mentors.
type Batch struct {
	ID               uint       `gorm:"column:id;primaryKey" json:"id"`
	Name             string     `gorm:"column:name;size:100;not null" json:"name"`
	CourseID         uint       `gorm:"column:course_id;index;not null" json:"course_id"`
	Course           *Course    `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	StartDate        time.Time  `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate          *time.Time `gorm:"column:end_date;type:date" json:"end_date"`
	PrimaryMentorID  *uint      `gorm:"column:primary_mentor_id;index" json:"primary_mentor_id"`
	PrimaryMentor    *User      `gorm:"constraint:OnDelete:SET NULL" json:"primary_mentor,omitempty"`
	SecondaryMentors []User     `gorm:"many2many:batch_secondary_mentors" json:"secondary_mentors"`
	// StudentCount is filled by listings, not stored.
	StudentCount int64 `gorm:"-" json:"student_count"`
}

// TableName overrides the table name.
func (Batch) TableName() string {
	return "batches"
}

// Student is the local student profile.
type Student struct {
	ID           uint     `gorm:"column:id;primaryKey" json:"id"`
	UserID       uint     `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	User         User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CRMStudentID string   `gorm:"column:crm_student_id;size:50;uniqueIndex;not null" json:"crm_student_id"`
	ProgramID    *uint    `gorm:"column:program_id" json:"program_id"`
	Program      *Program `json:"program,omitempty"`
	SubProgramID *uint    `gorm:"column:sub_program_id" json:"sub_program_id"`
	CourseID     *uint    `gorm:"column:course_id" json:"course_id"`
	BatchID      *uint    `gorm:"column:batch_id;index" json:"batch_id"`
	Batch        *Batch   `gorm:"constraint:OnDelete:SET NULL" json:"batch,omitempty"`
	FirstName    string   `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName     string   `gorm:"column:last_name;size:50" json:"last_name"`
	Email        string   `gorm:"column:email;size:254" json:"email"`
	// Mobile is stored as entered; matching uses its last ten characters.
	Mobile       string    `gorm:"column:mobile;size:15;index;not null" json:"mobile"`
	LMSStudentID *string   `gorm:"column:lms_student_id;size:100;index" json:"lms_student_id"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name.
func (Student) TableName() string {
	return "students"
}

// LMSID returns the linked remote id, or "" when unlinked.
func (s Student) LMSID() string {
	if s.LMSStudentID == nil {
		return ""
	}
	return *s.LMSStudentID
}

// Transaction is a fee payment recorded against a student.
type Transaction struct {
	ID            uint      `gorm:"column:id;primaryKey" json:"id"`
	StudentID     uint      `gorm:"column:student_id;index;not null" json:"student_id"`
	Student       *Student  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TransactionID string    `gorm:"column:transaction_id;size:100;not null" json:"transaction_id"`
	Amount        float64   `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	Date          time.Time `gorm:"column:date;autoCreateTime" json:"date"`
	Link          string    `gorm:"column:transaction_link;size:200" json:"transaction_link"`
}

// TableName overrides the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// All lists every model for migrations, parents first.
func All() []any {
	return []any{&User{}, &Program{}, &SubProgram{}, &Course{}, &Batch{}, &Student{}, &Transaction{}}
}
