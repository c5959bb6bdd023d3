// Package itemview builds the read model shown for items: the item itself, its
// last and next booking for the owner, and its comments.
package itemview

import (
	"context"
	"sort"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type BookingSource interface {
	ListForItems(ctx context.Context, itemIDs []int64) ([]*booking.Booking, error)
}

type CommentSource interface {
	FindForItems(ctx context.Context, itemIDs []int64) ([]*comment.Comment, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// CommentView is a comment with its author's name resolved at read time.
type CommentView struct {
	ID         int64
	Text       string
	AuthorName string
	CreatedAt  time.Time
}

// View is one assembled item. LastBooking and NextBooking are only set for the owner.
type View struct {
	Item        *item.Item
	LastBooking *booking.Booking
	NextBooking *booking.Booking
	Comments    []CommentView
}

type Assembler struct {
	bookings BookingSource
	comments CommentSource
	users    UserDirectory
	now      func() time.Time
}

// NewAssembler creates an Assembler. A nil clock means time.Now.
func NewAssembler(bookings BookingSource, comments CommentSource, users UserDirectory, now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{
		bookings: bookings,
		comments: comments,
		users:    users,
		now:      now,
	}
}

// AssembleOne builds the view of a single item for viewerID.
func (a *Assembler) AssembleOne(ctx context.Context, it *item.Item, viewerID int64) (View, error) {
	views, err := a.Assemble(ctx, []*item.Item{it}, viewerID)
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

// Assemble builds views for items, in the order given.
func (a *Assembler) Assemble(ctx context.Context, items []*item.Item, viewerID int64) ([]View, error) {
	itemIDs := make([]int64, 0, len(items))
	var ownedIDs []int64
	for _, it := range items {
		itemIDs = append(itemIDs, it.ID)
		if it.OwnerID == viewerID {
			ownedIDs = append(ownedIDs, it.ID)
		}
	}

	bookingsByItem := make(map[int64][]*booking.Booking)
	if len(ownedIDs) > 0 {
		bookings, err := a.bookings.ListForItems(ctx, ownedIDs)
		if err != nil {
			return nil, err
		}
		for _, b := range bookings {
			bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
		}
	}

	commentsByItem, err := a.commentsByItem(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	now := a.now()
	views := make([]View, 0, len(items))
	for _, it := range items {
		v := View{
			Item:     it,
			Comments: commentsByItem[it.ID],
		}
		if v.Comments == nil {
			v.Comments = []CommentView{}
		}
		if it.OwnerID == viewerID {
			v.LastBooking, v.NextBooking = LastAndNext(bookingsByItem[it.ID], now)
		}
		views = append(views, v)
	}
	return views, nil
}

func (a *Assembler) commentsByItem(ctx context.Context, itemIDs []int64) (map[int64][]CommentView, error) {
	comments, err := a.comments.FindForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string)
	out := make(map[int64][]CommentView)
	for _, c := range comments {
		name, ok := names[c.AuthorID]
		if !ok {
			author, err := a.users.GetByID(ctx, c.AuthorID)
			if err != nil {
				return nil, err
			}
			name = author.Name
			names[c.AuthorID] = name
		}

		out[c.ItemID] = append(out[c.ItemID], CommentView{
			ID:         c.ID,
			Text:       c.Text,
			AuthorName: name,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out, nil
}

// LastAndNext splits bookings at now. Bookings starting after now are candidates for
// next, where the earliest start wins. All others are candidates for last, where the
// latest end wins. Ties keep the first booking in input order.
func LastAndNext(bookings []*booking.Booking, now time.Time) (last, next *booking.Booking) {
	var upcoming, rest []*booking.Booking
	for _, b := range bookings {
		if b.Start.After(now) {
			upcoming = append(upcoming, b)
		} else {
			rest = append(rest, b)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].End.After(rest[j].End)
	})

	if len(rest) > 0 {
		last = rest[0]
	}
	if len(upcoming) > 0 {
		next = upcoming[0]
	}
	return last, next
}
