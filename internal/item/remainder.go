package item

// Remainders maps an item to the item left behind after it is used in a
// craft, e.g. a water bucket leaves an empty bucket.
type Remainders map[ID]ID

// DefaultRemainders returns the built-in container remainders.
func DefaultRemainders() Remainders {
	bucket := MustParseID("minecraft:bucket")
	bottle := MustParseID("minecraft:glass_bottle")
	return Remainders{
		MustParseID("minecraft:water_bucket"):       bucket,
		MustParseID("minecraft:lava_bucket"):        bucket,
		MustParseID("minecraft:milk_bucket"):        bucket,
		MustParseID("minecraft:powder_snow_bucket"): bucket,
		MustParseID("minecraft:honey_bottle"):       bottle,
		MustParseID("minecraft:dragon_breath"):      bottle,
	}
}

// Of returns the remainder for a stack: a single item of the mapped kind,
// or Empty when the item has no remainder.
func (r Remainders) Of(s Stack) Stack {
	if s.IsEmpty() {
		return Empty
	}
	if rem, ok := r[s.Item]; ok {
		return NewStack(rem, 1)
	}
	return Empty
}
