package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image référence un fichier hébergé sur MinIO.
type Image struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating"` // 1-5
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  []string           `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Ratings      float64            `bson:"ratings" json:"ratings"`
	Images       []Image            `bson:"images" json:"images"`
	Category     string             `bson:"category" json:"category"`
	Stock        int                `bson:"stock" json:"stock"`
	NumOfReviews int                `bson:"numOfReviews" json:"numOfReviews"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	User         primitive.ObjectID `bson:"user,omitempty" json:"user"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpsertReview ajoute l'avis, ou écrase en place celui que l'utilisateur
// avait déjà déposé sur ce produit (un seul avis par couple produit/user).
// Les champs dérivés ratings et numOfReviews sont recalculés dans la foulée,
// pour que l'appelant persiste le tout en une seule mise à jour.
func (p *Product) UpsertReview(r Review) {
	for i := range p.Reviews {
		if p.Reviews[i].User == r.User {
			p.Reviews[i].Rating = r.Rating
			p.Reviews[i].Comment = r.Comment
			p.recomputeRatings()
			return
		}
	}
	p.Reviews = append(p.Reviews, r)
	p.recomputeRatings()
}

// RemoveReview supprime l'avis par son id et recalcule les champs dérivés.
// Retourne false si aucun avis ne porte cet id.
func (p *Product) RemoveReview(reviewID primitive.ObjectID) bool {
	kept := p.Reviews[:0]
	removed := false
	for _, rev := range p.Reviews {
		if rev.ID == reviewID {
			removed = true
			continue
		}
		kept = append(kept, rev)
	}
	if !removed {
		return false
	}
	p.Reviews = kept
	p.recomputeRatings()
	return true
}

// recomputeRatings maintient l'invariant : ratings = moyenne arithmétique
// des notes, numOfReviews = nombre d'avis. Sans avis, les deux retombent à 0.
func (p *Product) recomputeRatings() {
	p.NumOfReviews = len(p.Reviews)
	if p.NumOfReviews == 0 {
		p.Ratings = 0
		return
	}
	sum := 0
	for _, rev := range p.Reviews {
		sum += rev.Rating
	}
	p.Ratings = float64(sum) / float64(p.NumOfReviews)
}
