package core

// MembershipTier determines how many books a patron may borrow and reserve at the same time.
type MembershipTier = string

const (
	TierStandard MembershipTier = "STANDARD"
	TierPremium  MembershipTier = "PREMIUM"
	TierStudent  MembershipTier = "STUDENT"
	TierSenior   MembershipTier = "SENIOR"
)

var borrowLimits = map[MembershipTier]int{
	TierStandard: 5,
	TierPremium:  10,
	TierStudent:  7,
	TierSenior:   7,
}

const (
	defaultReservationLimit = 3
	premiumReservationLimit = 5
)

// IsKnownTier reports whether tier is one of the membership tiers.
func IsKnownTier(tier MembershipTier) bool {
	_, ok := borrowLimits[tier]

	return ok
}

// BorrowLimit is the maximum number of concurrent loans. Unknown tiers get the STANDARD limit.
func BorrowLimit(tier MembershipTier) int {
	if limit, ok := borrowLimits[tier]; ok {
		return limit
	}

	return borrowLimits[TierStandard]
}

// ReservationLimit is the maximum number of non-terminal reservations.
func ReservationLimit(tier MembershipTier) int {
	if tier == TierPremium {
		return premiumReservationLimit
	}

	return defaultReservationLimit
}
