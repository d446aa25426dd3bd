package listing

import "strings"

const maskedPlaceholder = "••••••••"

// Card is the render-ready form of a listing for one buyer.
type Card struct {
	Listing
	Saved     bool
	Contacted bool
	// Masked is true while seller contact details are hidden.
	Masked bool
}

// View returns the card for a viewer. Seller contact details are masked unless contacted.
func (l Listing) View(saved, contacted bool) Card {
	card := Card{Listing: l, Saved: saved, Contacted: contacted}
	if !contacted {
		card.ContactNumber = MaskPhone(l.ContactNumber)
		card.SellerEmail = MaskEmail(l.SellerEmail)
		card.Masked = true
	}
	return card
}

// Cards renders listings against the viewer's saved and contacted sets.
func Cards(listings []Listing, saved, contacted IDSet) []Card {
	out := make([]Card, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.View(saved.Has(l.ID), contacted.Has(l.ID)))
	}
	return out
}

// PublicCards renders listings for anonymous visitors, with contact details masked.
func PublicCards(listings []Listing) []Card {
	empty := NewIDSet()
	return Cards(listings, empty, empty)
}

// MaskPhone keeps the last two digits of a phone number.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	r := []rune(phone)
	if len(r) <= 2 {
		return maskedPlaceholder
	}
	return maskedPlaceholder + string(r[len(r)-2:])
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return maskedPlaceholder
	}
	return string([]rune(local)[:1]) + "•••@" + domain
}
