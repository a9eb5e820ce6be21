package docstore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = models.BookingPending
	}
	now := s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	_, err := s.client.Collection(colBookings).Doc(b.ID).Create(ctx, bookingDoc{
		UserID:    b.UserID,
		Plan:      b.Plan,
		Date:      b.Date,
		Time:      b.Time,
		Amount:    b.Amount.InexactFloat64(),
		Status:    string(b.Status),
		Notes:     b.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}

func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	snap, err := s.client.Collection(colBookings).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var doc bookingDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	b := doc.model(snap.Ref.ID)
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, uid string) ([]models.Booking, error) {
	q := s.client.Collection(colBookings).Query
	if uid != "" {
		q = q.Where("userId", "==", uid)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	bookings := make([]models.Booking, 0, len(snaps))
	for _, snap := range snaps {
		var doc bookingDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		bookings = append(bookings, doc.model(snap.Ref.ID))
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.Time > b.Time
	})
	return bookings, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	ref := s.client.Collection(colBookings).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return notFound(err)
		}
		current, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if current != string(from) {
			return store.ErrConflict
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updatedAt", Value: s.now()},
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetBooking(ctx, id)
}

func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	ref := s.client.Collection(colBookings).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return notFound(err)
	}
	_, err := ref.Delete(ctx)
	return err
}

// UpsertUser creates the profile on first sight and afterwards only refreshes email and role.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	ref := s.client.Collection(colUsers).Doc(u.ID)
	now := s.now()
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if isNotFound(err) {
			if u.Role == "" {
				u.Role = models.RoleUser
			}
			u.CreatedAt, u.UpdatedAt = now, now
			return tx.Create(ref, userDoc{
				Email:     u.Email,
				Name:      u.Name,
				Phone:     u.Phone,
				Role:      u.Role,
				Address:   toAddressDoc(u.Address),
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if err != nil {
			return err
		}
		updates := []firestore.Update{
			{Path: "email", Value: u.Email},
			{Path: "updatedAt", Value: now},
		}
		if u.Role != "" {
			updates = append(updates, firestore.Update{Path: "role", Value: u.Role})
		}
		return tx.Update(ref, updates)
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	snap, err := s.client.Collection(colUsers).Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, err
	}
	u := doc.model(snap.Ref.ID)
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	_, err := s.client.Collection(colUsers).Doc(u.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: u.Name},
		{Path: "phone", Value: u.Phone},
		{Path: "address", Value: toAddressDoc(u.Address)},
		{Path: "updatedAt", Value: u.UpdatedAt},
	})
	return notFound(err)
}

func (s *Store) ListUsers(ctx context.Context, page models.Page) (models.PageResult[models.User], error) {
	page = page.Normalize()
	q := s.client.Collection(colUsers).Query
	total, err := count(ctx, q)
	if err != nil {
		return models.PageResult[models.User]{}, err
	}
	snaps, err := q.OrderBy("createdAt", firestore.Desc).Offset(page.Offset()).Limit(page.Limit).Documents(ctx).GetAll()
	if err != nil {
		return models.PageResult[models.User]{}, err
	}
	users := make([]models.User, 0, len(snaps))
	for _, snap := range snaps {
		var doc userDoc
		if err := snap.DataTo(&doc); err != nil {
			return models.PageResult[models.User]{}, err
		}
		users = append(users, doc.model(snap.Ref.ID))
	}
	return models.PageResult[models.User]{Items: users, Total: total, Page: page.Page, Limit: page.Limit}, nil
}
