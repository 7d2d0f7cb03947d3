package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	MobileNo    string             `bson:"mobileNo" json:"mobileNo"`
	Avatar      Image              `bson:"avatar" json:"avatar"`
	Role        string             `bson:"role" json:"role"`
	Description string             `bson:"description" json:"description"`

	// Réinitialisation de mot de passe : on ne stocke que le sha256 du token,
	// le token en clair ne part que dans l'email.
	ResetPasswordToken  string    `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
