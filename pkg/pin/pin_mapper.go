package pin

import (
	"FoodShare/domain"
	"FoodShare/entities"
	"strings"
)

// toDomain normalizes a stored record. Records without a full coordinate
// are malformed.
func toDomain(p *entities.Pin) (domain.Pin, error) {
	if p == nil || p.Latitude == nil || p.Longitude == nil {
		return domain.Pin{}, domain.ErrMalformedPin
	}

	bookmarkedBy := make([]string, 0, len(p.Bookmarks))
	for _, b := range p.Bookmarks {
		bookmarkedBy = append(bookmarkedBy, b.UserID.String())
	}
	voted := p.VotedUserIDs
	if voted == nil {
		voted = []string{}
	}

	return domain.Pin{
		ID:           p.ID.String(),
		Title:        p.Title,
		Description:  p.Description,
		Host:         p.Host,
		Location:     domain.LatLng{Lat: *p.Latitude, Lng: *p.Longitude},
		Date:         p.Date,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		Cost:         domain.CostFromFree(domain.Cost(p.Cost).IsFree()),
		Category:     parseStoredCategories(p.Category),
		UserID:       p.UserID.String(),
		CreatedAt:    p.CreatedAt,
		CampusID:     p.CampusID,
		Upvotes:      p.Upvotes,
		VotedUserIDs: voted,
		BookmarkedBy: bookmarkedBy,
	}, nil
}

// parseStoredCategories keeps the known tags of a stored list.
func parseStoredCategories(raw string) domain.CategorySet {
	var set domain.CategorySet
	for _, part := range strings.Split(raw, ",") {
		c := domain.Category(strings.ToLower(strings.TrimSpace(part)))
		if c.Valid() {
			set = set.Add(c)
		}
	}
	return set
}

// toEventSet converts records in order, skipping malformed ones.
func toEventSet(pins []*entities.Pin) (domain.EventSet, int) {
	set := make(domain.EventSet, 0, len(pins))
	skipped := 0
	for _, p := range pins {
		d, err := toDomain(p)
		if err != nil {
			skipped++
			continue
		}
		set = append(set, d)
	}
	return set, skipped
}

func updateFields(req domain.UpdatePinRequest) (map[string]any, error) {
	fields := make(map[string]any)
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Host != nil {
		fields["host"] = *req.Host
	}
	if req.Location != nil {
		fields["latitude"] = req.Location.Lat
		fields["longitude"] = req.Location.Lng
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.IsFree != nil {
		fields["cost"] = string(domain.CostFromFree(*req.IsFree))
	}
	if req.Category != nil {
		cats, err := domain.ParseCategoryList(*req.Category)
		if err != nil {
			return nil, err
		}
		fields["category"] = cats.Join()
	}
	return fields, nil
}
