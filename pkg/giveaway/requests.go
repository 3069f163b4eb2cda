package giveaway

// CreateListingRequest is the payload of a new listing. Images holds object keys
// returned by the presign endpoint.
type CreateListingRequest struct {
	Title              string   `json:"title" validate:"min=3,max=100"`
	Category           string   `json:"category" validate:"category"`
	Condition          string   `json:"condition" validate:"condition"`
	Description        string   `json:"description" validate:"min=20,max=1000"`
	Images             []string `json:"images" validate:"min=1,dive,min=5"`
	PickupAddress      string   `json:"pickupAddress" validate:"min=10,max=255"`
	PickupInstructions string   `json:"pickupInstructions,omitempty" validate:"max=500"`
}

// UpdateListingRequest is a partial update; nil fields are left unchanged.
type UpdateListingRequest struct {
	Title              *string  `json:"title,omitempty" validate:"omitnil,min=3,max=100"`
	Category           *string  `json:"category,omitempty" validate:"omitnil,category"`
	Condition          *string  `json:"condition,omitempty" validate:"omitnil,condition"`
	Description        *string  `json:"description,omitempty" validate:"omitnil,min=20,max=1000"`
	Images             []string `json:"images,omitempty" validate:"omitnil,min=1,dive,min=5"`
	PickupAddress      *string  `json:"pickupAddress,omitempty" validate:"omitnil,min=10,max=255"`
	PickupInstructions *string  `json:"pickupInstructions,omitempty" validate:"omitnil,max=500"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left
// unchanged and an empty Bio or Avatar clears it.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitnil,min=3,max=50"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,min=5"`
}
