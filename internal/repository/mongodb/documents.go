package mongodb

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/moradafish/dashboard/internal/domain/models"
)

// Staff and sample documents are written by other tools and may carry ObjectID,
// string or integer identifiers; all decode to the string form used by ledger keys.
type staffDocument struct {
	ID        bson.RawValue `bson:"_id"`
	Name      string        `bson:"name"`
	Role      string        `bson:"role"`
	BadgeCode string        `bson:"badge_code"`
	Nickname  string        `bson:"nickname"`
}

func (d staffDocument) model() models.StaffMember {
	return models.StaffMember{
		ID:        idString(d.ID),
		Name:      d.Name,
		Role:      d.Role,
		BadgeCode: d.BadgeCode,
		Nickname:  d.Nickname,
	}
}

type sampleDocument struct {
	ID              bson.RawValue `bson:"_id"`
	Date            string        `bson:"date"`
	Supplier        string        `bson:"supplier"`
	WithScalesKg    float64       `bson:"with_scales_kg"`
	WithoutScalesKg float64       `bson:"without_scales_kg"`
	ApprovalPercent *float64      `bson:"approval_percent"`
}

func (d sampleDocument) model() models.ScalingSample {
	return models.ScalingSample{
		ID:              idString(d.ID),
		Date:            d.Date,
		Supplier:        d.Supplier,
		WithScalesKg:    d.WithScalesKg,
		WithoutScalesKg: d.WithoutScalesKg,
		ApprovalPercent: d.ApprovalPercent,
	}
}

func idString(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeString:
		return v.StringValue()
	case bson.TypeInt32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bson.TypeInt64:
		return strconv.FormatInt(v.Int64(), 10)
	}
	return ""
}
