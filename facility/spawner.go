package facility

import "context"

// spawn admits the initial population at once and then one customer per spawn interval
// until MaxCustomers have been admitted.
func (f *Facility) spawn(ctx context.Context) {
	pop := f.layout.Population

	for range pop.InitialCustomers {
		f.admitRandom(ctx)
	}

	for admitted := pop.InitialCustomers; admitted < pop.MaxCustomers; admitted++ {
		if !f.env.pause(ctx, pop.SpawnInterval) {
			return
		}

		f.admitRandom(ctx)
	}
}

func (f *Facility) admitRandom(ctx context.Context) *Agent {
	profile := f.pickProfile()
	balance := f.layout.Population.Balance.Draw(f.env.rnd)
	hasCar := f.env.rnd.Float64() < profile.Car

	return f.Admit(ctx, profile, balance, hasCar)
}

// pickProfile draws by spawn weight; if every weight is zero the draw is uniform.
func (f *Facility) pickProfile() *Profile {
	sum := 0
	for _, p := range f.profiles {
		sum += p.SpawnWeight
	}

	if sum <= 0 {
		return f.profiles[f.env.rnd.IntN(len(f.profiles))]
	}

	roll := f.env.rnd.IntN(sum)
	for _, p := range f.profiles {
		if roll < p.SpawnWeight {
			return p
		}

		roll -= p.SpawnWeight
	}

	return f.profiles[len(f.profiles)-1]
}
