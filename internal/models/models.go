package models

import "time"

// Roles a user can register with. The role is fixed at registration and
// travels as a claim inside every access token.
const (
	RoleVisitor   = "Visitor"
	RoleDonor     = "Donor"
	RoleVolunteer = "Volunteer"
	RolePartner   = "Partner"
	RoleAdmin     = "Admin"
)

var ValidRoles = []string{RoleVisitor, RoleDonor, RoleVolunteer, RolePartner, RoleAdmin}

// Donation settlement states.
const (
	DonationPending  = "PENDING"
	DonationVerified = "VERIFIED"
	DonationFailed   = "FAILED"
)

type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type Content struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Body          string    `db:"body"`
	Category      string    `db:"category"`
	ImageData     []byte    `db:"image_data"`
	ImageMimetype *string   `db:"image_mimetype"`
	UserID        *int64    `db:"user_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type BlogPost struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Content       string    `db:"content"`
	Category      string    `db:"category"`
	ImageData     []byte    `db:"image_data"`
	ImageMimetype *string   `db:"image_mimetype"`
	AuthorID      int64     `db:"author_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type Comment struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	UserID    *int64    `db:"user_id"`
	Username  string    `db:"username"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

type Like struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	UserID    *int64    `db:"user_id"`
	IPAddress string    `db:"ip_address"`
	CreatedAt time.Time `db:"created_at"`
}

type Donation struct {
	ID             int64     `db:"id"`
	UserID         *int64    `db:"user_id"`
	Amount         float64   `db:"amount"`
	Email          string    `db:"email"`
	Frequency      string    `db:"frequency"`
	Recognition    string    `db:"recognition"`
	TransactionRef string    `db:"paystack_transaction_ref"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

type NewsletterSubscription struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	SubscribedAt time.Time `db:"subscribed_at"`
}

type ContactMessage struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Message     string    `db:"message"`
	PhoneNumber *string   `db:"phone_number"`
	Address     *string   `db:"address"`
	CreatedAt   time.Time `db:"created_at"`
}

type Partnership struct {
	ID           int64     `db:"id"`
	Organization string    `db:"organization"`
	Email        string    `db:"email"`
	Message      *string   `db:"message"`
	CreatedAt    time.Time `db:"created_at"`
}

type Volunteer struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Skills    *string   `db:"skills"`
	CreatedAt time.Time `db:"created_at"`
}

type Testimonial struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Content   string    `db:"content"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

type SiteVisit struct {
	ID        string    `db:"id"`
	IPAddress *string   `db:"ip_address"`
	UserAgent *string   `db:"user_agent"`
	Path      *string   `db:"path"`
	Referrer  *string   `db:"referrer"`
	CreatedAt time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
