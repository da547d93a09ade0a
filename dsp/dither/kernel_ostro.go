package dither

type ostroCoef struct {
	right, downBack, down, sum int32
}

// ostromoukhovTable holds the intensity-dependent weights of the variable
// coefficient error diffusion (Ostromoukhov, SIGGRAPH 2001). The upper half
// mirrors the lower one.
var ostromoukhovTable = func() (t [256]ostroCoef) {
	for i, c := range ostromoukhovHalf {
		c.sum = c.right + c.downBack + c.down
		t[i] = c
		t[255-i] = c
	}
	return t
}()

var ostromoukhovHalf = [128]ostroCoef{
	{13, 0, 5, 0}, {13, 0, 5, 0}, {21, 0, 10, 0}, {7, 0, 4, 0},
	{8, 0, 5, 0}, {47, 3, 28, 0}, {23, 3, 13, 0}, {15, 3, 8, 0},
	{22, 6, 11, 0}, {43, 15, 20, 0}, {7, 3, 3, 0}, {501, 224, 211, 0},
	{249, 116, 103, 0}, {165, 80, 67, 0}, {123, 62, 49, 0}, {489, 256, 191, 0},
	{81, 44, 31, 0}, {483, 272, 181, 0}, {60, 35, 22, 0}, {53, 32, 19, 0},
	{237, 148, 83, 0}, {471, 304, 161, 0}, {3, 2, 1, 0}, {481, 314, 185, 0},
	{354, 226, 155, 0}, {1389, 866, 685, 0}, {227, 138, 125, 0}, {267, 158, 163, 0},
	{327, 188, 220, 0}, {61, 34, 45, 0}, {627, 338, 505, 0}, {1227, 638, 1075, 0},
	{20, 10, 19, 0}, {1937, 1000, 1767, 0}, {977, 520, 855, 0}, {657, 360, 551, 0},
	{71, 40, 57, 0}, {2005, 1160, 1539, 0}, {337, 200, 247, 0}, {2039, 1240, 1425, 0},
	{257, 160, 171, 0}, {691, 440, 437, 0}, {1045, 680, 627, 0}, {301, 200, 171, 0},
	{177, 120, 95, 0}, {2141, 1480, 1083, 0}, {1079, 760, 513, 0}, {725, 520, 323, 0},
	{137, 100, 57, 0}, {2209, 1640, 855, 0}, {53, 40, 19, 0}, {2243, 1720, 741, 0},
	{565, 440, 171, 0}, {759, 600, 209, 0}, {1147, 920, 285, 0}, {2311, 1880, 513, 0},
	{97, 80, 19, 0}, {335, 280, 57, 0}, {1181, 1000, 171, 0}, {793, 680, 95, 0},
	{599, 520, 57, 0}, {2413, 2120, 171, 0}, {405, 360, 19, 0}, {2447, 2200, 57, 0},
	{11, 10, 0, 0}, {158, 151, 3, 0}, {178, 179, 7, 0}, {1030, 1091, 63, 0},
	{248, 277, 21, 0}, {318, 375, 35, 0}, {458, 571, 63, 0}, {878, 1159, 147, 0},
	{5, 7, 1, 0}, {172, 181, 37, 0}, {97, 76, 22, 0}, {72, 41, 17, 0},
	{119, 47, 29, 0}, {4, 1, 1, 0}, {4, 1, 1, 0}, {4, 1, 1, 0},
	{4, 1, 1, 0}, {4, 1, 1, 0}, {4, 1, 1, 0}, {4, 1, 1, 0},
	{4, 1, 1, 0}, {4, 1, 1, 0}, {65, 18, 17, 0}, {95, 29, 26, 0},
	{185, 62, 53, 0}, {30, 11, 9, 0}, {35, 14, 11, 0}, {85, 37, 28, 0},
	{55, 26, 19, 0}, {80, 41, 29, 0}, {155, 86, 59, 0}, {5, 3, 2, 0},
	{5, 3, 2, 0}, {5, 3, 2, 0}, {5, 3, 2, 0}, {5, 3, 2, 0},
	{5, 3, 2, 0}, {5, 3, 2, 0}, {5, 3, 2, 0}, {5, 3, 2, 0},
	{5, 3, 2, 0}, {5, 3, 2, 0}, {5, 3, 2, 0}, {5, 3, 2, 0},
	{305, 176, 119, 0}, {155, 86, 59, 0}, {105, 56, 39, 0}, {80, 41, 29, 0},
	{65, 32, 23, 0}, {55, 26, 19, 0}, {335, 152, 113, 0}, {85, 37, 28, 0},
	{115, 48, 37, 0}, {35, 14, 11, 0}, {355, 136, 109, 0}, {30, 11, 9, 0},
	{365, 128, 107, 0}, {185, 62, 53, 0}, {25, 8, 7, 0}, {95, 29, 26, 0},
	{385, 112, 103, 0}, {65, 18, 17, 0}, {395, 104, 101, 0}, {4, 1, 1, 0},
}
