package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aithenode/booking-service/internal/models"
)

func TestValidateUserCreate(t *testing.T) {
	bv := NewBusinessValidator()

	tests := []struct {
		name    string
		req     UserCreateRequest
		wantErr bool
		field   string
	}{
		{
			name: "valid student",
			req: UserCreateRequest{
				Username:  "alice",
				Email:     "alice@example.com",
				FirstName: "Alice",
				LastName:  "Nguyen",
				Role:      models.RoleStudent,
			},
		},
		{
			name: "invalid role",
			req: UserCreateRequest{
				Username:  "bob",
				Email:     "bob@example.com",
				FirstName: "Bob",
				LastName:  "Tran",
				Role:      "admin",
			},
			wantErr: true,
			field:   "role",
		},
		{
			name: "bad email",
			req: UserCreateRequest{
				Username:  "carol",
				Email:     "not-an-email",
				FirstName: "Carol",
				LastName:  "Le",
				Role:      models.RoleEducator,
			},
			wantErr: true,
			field:   "email",
		},
		{
			name:    "missing everything",
			req:     UserCreateRequest{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.Validate(&tt.req)
			if !tt.wantErr {
				assert.False(t, errs.HasErrors(), "unexpected errors: %v", errs)
				return
			}
			assert.True(t, errs.HasErrors())
			if tt.field != "" {
				fields := make([]string, len(errs))
				for i, e := range errs {
					fields[i] = e.Field
				}
				assert.Contains(t, fields, tt.field)
			}
		})
	}
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	bv := NewBusinessValidator()

	errs := bv.Validate(&SessionCreateRequest{})
	assert.True(t, errs.HasErrors())

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.Contains(t, fields, "educator_id")
	assert.NotContains(t, fields, "educator_i_d")

	errs = bv.Validate(&SubjectCreateRequest{})
	fields = fields[:0]
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "category_id")
}

func TestValidateSessionCreate(t *testing.T) {
	bv := NewBusinessValidator()

	start := time.Now().Add(48 * time.Hour)

	valid := &SessionCreateRequest{
		EducatorID: 1,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}
	assert.False(t, bv.ValidateSessionCreate(valid).HasErrors())

	// End before start
	backwards := &SessionCreateRequest{
		EducatorID: 1,
		StartTime:  start,
		EndTime:    start.Add(-time.Hour),
	}
	errs := bv.ValidateSessionCreate(backwards)
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "end_time", errs[0].Field)

	// Start in the past
	past := &SessionCreateRequest{
		EducatorID: 1,
		StartTime:  time.Now().Add(-time.Hour),
		EndTime:    time.Now().Add(time.Hour),
	}
	assert.True(t, bv.ValidateSessionCreate(past).HasErrors())
}

func TestValidateReviewCreate(t *testing.T) {
	bv := NewBusinessValidator()

	assert.False(t, bv.ValidateReviewCreate(&ReviewCreateRequest{EducatorID: 1, Rating: 5}).HasErrors())

	for _, rating := range []int{0, 6} {
		errs := bv.ValidateReviewCreate(&ReviewCreateRequest{EducatorID: 1, Rating: rating})
		assert.True(t, errs.HasErrors(), "rating %d should fail", rating)
	}

	blank := "   "
	errs := bv.ValidateReviewCreate(&ReviewCreateRequest{EducatorID: 1, Rating: 4, Comment: &blank})
	assert.True(t, errs.HasErrors())
}
