package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"not null"   json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Assets      []Asset       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"assets"`
	Sizes       []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
}

type Asset struct {
	ID        string    `gorm:"primaryKey"       json:"id"`
	URL       string    `json:"url"`
	URLLocal  string    `gorm:"column:url_local" json:"url_local"`
	ProductID string    `gorm:"index;not null"   json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductSize struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID string  `gorm:"index;not null"           json:"product_id"`
	Size      string  `gorm:"not null"                 json:"size"`
	Price     float64 `gorm:"not null"                 json:"price"`
	Stock     uint    `json:"stock"`
}

// CartItem holds at most one row per (user, product, size). SQLite treats
// NULLs as distinct in unique indexes, so for rows without a size the
// invariant rests on the lookup-then-write path in the repo.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                               json:"id"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_cart_user_product_size"  json:"user_id"`
	ProductID string    `gorm:"not null;uniqueIndex:idx_cart_user_product_size"        json:"product_id"`
	SizeID    *uint     `gorm:"uniqueIndex:idx_cart_user_product_size"                 json:"size_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0"                            json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                        json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_product" json:"user_id"`
	ProductID string    `gorm:"not null;uniqueIndex:idx_favorites_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthToken stores the SHA-256 of an issued session JWT. Revocation flips
// the flag; rows past expiry are removed by a background sweep.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null"     json:"token"`
	ExpiresAt int64     `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Asset{},
		&ProductSize{},
		&CartItem{},
		&Favorite{},
		&AuthToken{},
	}
}
