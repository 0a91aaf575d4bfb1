package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/ports"
)

const loansCollection = "loan_applications"

type LoanRepository struct {
	coll *mongo.Collection
}

func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{coll: db.Collection(loansCollection)}
}

// mongoLoan is the stored document shape. created_by is kept as an ObjectID
// so it can be joined against users._id.
type mongoLoan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FullName  string             `bson:"full_name"`
	Amount    float64            `bson:"amount"`
	Purpose   string             `bson:"purpose"`
	Status    string             `bson:"status"`
	CreatedBy primitive.ObjectID `bson:"created_by"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// mongoLoanOwner is the document shape produced by the $lookup pipelines.
type mongoLoanOwner struct {
	mongoLoan `bson:",inline"`
	Owner     []struct {
		Username string `bson:"username"`
		Email    string `bson:"email"`
	} `bson:"owner"`
}

func (ml mongoLoan) toDomain() *domain.LoanApplication {
	return &domain.LoanApplication{
		ID:        ml.ID.Hex(),
		FullName:  ml.FullName,
		Amount:    ml.Amount,
		Purpose:   ml.Purpose,
		Status:    domain.LoanStatus(ml.Status),
		CreatedBy: ml.CreatedBy.Hex(),
		CreatedAt: ml.CreatedAt,
		UpdatedAt: ml.UpdatedAt,
	}
}

func (mlo mongoLoanOwner) toPorts() *ports.LoanWithOwner {
	out := &ports.LoanWithOwner{LoanApplication: *mlo.mongoLoan.toDomain()}
	if len(mlo.Owner) > 0 {
		out.Owner = &ports.LoanOwner{
			Username: mlo.Owner[0].Username,
			Email:    mlo.Owner[0].Email,
		}
	}
	return out
}

func (r *LoanRepository) Create(ctx context.Context, loan *domain.LoanApplication) (*domain.LoanApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(loan.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("insert loan: invalid owner id: %w", err)
	}

	doc := mongoLoan{
		FullName:  loan.FullName,
		Amount:    loan.Amount,
		Purpose:   loan.Purpose,
		Status:    string(loan.Status),
		CreatedBy: owner,
		CreatedAt: loan.CreatedAt,
		UpdatedAt: loan.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}

	created := *loan
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLoanNotFound
	}

	var ml mongoLoan
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *LoanRepository) FindByOwner(ctx context.Context, userID string) ([]*domain.LoanApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	cur, err := r.coll.Find(ctx, bson.M{"created_by": owner},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list own loans: %w", err)
	}
	defer cur.Close(ctx)

	var loans []*domain.LoanApplication
	for cur.Next(ctx) {
		var ml mongoLoan
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode loan: %w", err)
		}
		loans = append(loans, ml.toDomain())
	}
	return loans, cur.Err()
}

// ownerLookup joins the owning user's username and email onto each loan.
var ownerLookup = bson.D{{Key: "$lookup", Value: bson.M{
	"from":         usersCollection,
	"localField":   "created_by",
	"foreignField": "_id",
	"as":           "owner",
}}}

func (r *LoanRepository) FindAllWithOwner(ctx context.Context) ([]*ports.LoanWithOwner, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		ownerLookup,
	}
	return r.aggregateWithOwner(ctx, pipeline)
}

func (r *LoanRepository) Recent(ctx context.Context, limit int) ([]*ports.LoanWithOwner, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		ownerLookup,
	}
	return r.aggregateWithOwner(ctx, pipeline)
}

func (r *LoanRepository) aggregateWithOwner(ctx context.Context, pipeline mongo.Pipeline) ([]*ports.LoanWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate loans: %w", err)
	}
	defer cur.Close(ctx)

	var loans []*ports.LoanWithOwner
	for cur.Next(ctx) {
		var mlo mongoLoanOwner
		if err := cur.Decode(&mlo); err != nil {
			return nil, fmt.Errorf("decode loan: %w", err)
		}
		loans = append(loans, mlo.toPorts())
	}
	return loans, cur.Err()
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, status domain.LoanStatus) (*domain.LoanApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLoanNotFound
	}

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ml mongoLoan
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("update loan status: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *LoanRepository) CountByStatus(ctx context.Context, status domain.LoanStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return n, nil
}

// AmountTotals sums every loan amount and, conditionally, the approved ones,
// in a single pass.
func (r *LoanRepository) AmountTotals(ctx context.Context) (*ports.AmountTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"total_amount": bson.M{"$sum": "$amount"},
			"approved_amount": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", string(domain.StatusApproved)}}, "$amount", 0},
			}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("amount totals: %w", err)
	}
	defer cur.Close(ctx)

	totals := &ports.AmountTotals{}
	if cur.Next(ctx) {
		if err := cur.Decode(totals); err != nil {
			return nil, fmt.Errorf("decode totals: %w", err)
		}
	}
	return totals, cur.Err()
}

func (r *LoanRepository) CountByMonth(ctx context.Context) ([]*ports.MonthlyLoanStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$created_at"},
				"month": bson.M{"$month": "$created_at"},
			},
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":    0,
			"year":   "$_id.year",
			"month":  "$_id.month",
			"count":  1,
			"amount": 1,
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("loans by month: %w", err)
	}
	defer cur.Close(ctx)

	var out []*ports.MonthlyLoanStats
	for cur.Next(ctx) {
		var row ports.MonthlyLoanStats
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode monthly stats: %w", err)
		}
		out = append(out, &row)
	}
	return out, cur.Err()
}

func (r *LoanRepository) GroupByStatus(ctx context.Context) ([]*ports.StatusLoanStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":    "$status",
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$amount"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":    0,
			"status": "$_id",
			"count":  1,
			"amount": 1,
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("loans by status: %w", err)
	}
	defer cur.Close(ctx)

	var out []*ports.StatusLoanStats
	for cur.Next(ctx) {
		var row ports.StatusLoanStats
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode status stats: %w", err)
		}
		out = append(out, &row)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the indexes used by the list and dashboard queries.
func (r *LoanRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
