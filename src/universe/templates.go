package universe

// BuiltinTemplates are the seeding patterns available without any
// configuration. Coordinates are [x, y] pairs, origin at the top-left.
var BuiltinTemplates = []Template{
	{
		Name:  "blinker",
		Descr: "period-2 oscillator",
		Coordinates: [][]int{
			{1, 2}, {2, 2}, {3, 2},
		},
	},
	{
		Name:  "block",
		Descr: "2x2 still life",
		Coordinates: [][]int{
			{1, 1}, {2, 1},
			{1, 2}, {2, 2},
		},
	},
	{
		Name:  "glider",
		Descr: "the smallest diagonal spaceship",
		Coordinates: [][]int{
			{1, 0},
			{2, 1},
			{0, 2}, {1, 2}, {2, 2},
		},
	},
	{
		Name:  "stills",
		Descr: "a sample that settles into stable patterns",
		Coordinates: [][]int{
			{1, 1}, {1, 2},
			{2, 1}, {2, 2},
			{3, 3},
			{4, 2},
			{4, 3},
			{5, 3},
		},
	},
}
