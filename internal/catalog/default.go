package catalog

// defaultEntries is the built-in conductor table: AWG/kcmil sizes with
// circular-mil areas and 75°C column ampacity ratings.
var defaultEntries = []Entry{
	{Size: "14 AWG", AreaCMil: 4110, Ampacity: map[Material]float64{MaterialCopper: 20, MaterialAluminum: 15}},
	{Size: "12 AWG", AreaCMil: 6530, Ampacity: map[Material]float64{MaterialCopper: 25, MaterialAluminum: 20}},
	{Size: "10 AWG", AreaCMil: 10380, Ampacity: map[Material]float64{MaterialCopper: 35, MaterialAluminum: 30}},
	{Size: "8 AWG", AreaCMil: 16510, Ampacity: map[Material]float64{MaterialCopper: 50, MaterialAluminum: 40}},
	{Size: "6 AWG", AreaCMil: 26240, Ampacity: map[Material]float64{MaterialCopper: 65, MaterialAluminum: 50}},
	{Size: "4 AWG", AreaCMil: 41740, Ampacity: map[Material]float64{MaterialCopper: 85, MaterialAluminum: 65}},
	{Size: "3 AWG", AreaCMil: 52620, Ampacity: map[Material]float64{MaterialCopper: 100, MaterialAluminum: 75}},
	{Size: "2 AWG", AreaCMil: 66360, Ampacity: map[Material]float64{MaterialCopper: 115, MaterialAluminum: 90}},
	{Size: "1 AWG", AreaCMil: 83690, Ampacity: map[Material]float64{MaterialCopper: 130, MaterialAluminum: 100}},
	{Size: "1/0 AWG", AreaCMil: 105600, Ampacity: map[Material]float64{MaterialCopper: 150, MaterialAluminum: 120}},
	{Size: "2/0 AWG", AreaCMil: 133100, Ampacity: map[Material]float64{MaterialCopper: 175, MaterialAluminum: 135}},
	{Size: "3/0 AWG", AreaCMil: 167800, Ampacity: map[Material]float64{MaterialCopper: 200, MaterialAluminum: 155}},
	{Size: "4/0 AWG", AreaCMil: 211600, Ampacity: map[Material]float64{MaterialCopper: 230, MaterialAluminum: 180}},
	{Size: "250 kcmil", AreaCMil: 250000, Ampacity: map[Material]float64{MaterialCopper: 255, MaterialAluminum: 205}},
	{Size: "300 kcmil", AreaCMil: 300000, Ampacity: map[Material]float64{MaterialCopper: 285, MaterialAluminum: 230}},
	{Size: "350 kcmil", AreaCMil: 350000, Ampacity: map[Material]float64{MaterialCopper: 310, MaterialAluminum: 250}},
	{Size: "400 kcmil", AreaCMil: 400000, Ampacity: map[Material]float64{MaterialCopper: 335, MaterialAluminum: 270}},
	{Size: "500 kcmil", AreaCMil: 500000, Ampacity: map[Material]float64{MaterialCopper: 380, MaterialAluminum: 310}},
	{Size: "600 kcmil", AreaCMil: 600000, Ampacity: map[Material]float64{MaterialCopper: 420, MaterialAluminum: 340}},
	{Size: "750 kcmil", AreaCMil: 750000, Ampacity: map[Material]float64{MaterialCopper: 475, MaterialAluminum: 385}},
	{Size: "1000 kcmil", AreaCMil: 1000000, Ampacity: map[Material]float64{MaterialCopper: 545, MaterialAluminum: 445}},
}

// Default returns the built-in conductor catalog.
func Default() *Catalog {
	c, err := New(defaultEntries)
	if err != nil {
		// The built-in table is validated by tests; a failure here is a bug.
		panic(err)
	}
	return c
}
