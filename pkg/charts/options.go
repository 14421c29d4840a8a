package charts

import "math"

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func barOption() Option {
	return Option{
		"xAxis": map[string]any{"type": "category", "data": weekdays},
		"yAxis": map[string]any{"type": "value"},
		"series": []any{
			map[string]any{
				"type": "bar",
				"data": []int{120, 200, 150, 80, 70, 110, 130},
			},
		},
	}
}

func lineOption() Option {
	names := []string{"Email", "Union Ads", "Video Ads", "Direct", "Search Engine"}
	data := [][]int{
		{120, 132, 101, 134, 90, 230, 210},
		{220, 182, 191, 234, 290, 330, 310},
		{150, 232, 201, 154, 190, 330, 410},
		{320, 332, 301, 334, 390, 330, 320},
		{820, 932, 901, 934, 1290, 1330, 1320},
	}
	series := make([]any, len(names))
	for i, name := range names {
		series[i] = map[string]any{
			"name":  name,
			"type":  "line",
			"stack": "Total",
			"data":  data[i],
		}
	}
	return Option{
		"tooltip": map[string]any{"trigger": "axis"},
		"legend":  map[string]any{"data": names},
		"grid": map[string]any{
			"left": "3%", "right": "4%", "bottom": "3%", "containLabel": true,
		},
		"xAxis":  map[string]any{"type": "category", "boundaryGap": false, "data": weekdays},
		"yAxis":  map[string]any{"type": "value"},
		"series": series,
	}
}

// stackColumnOption stacks each series as its share of the daily total, in
// percent with one decimal. Raw values must be non-negative.
func stackColumnOption() Option {
	names := []string{"Direct", "Mail Ad", "Affiliate Ad", "Video Ad", "Search Engine"}
	raw := [][]float64{
		{100, 302, 301, 334, 390, 330, 320},
		{320, 132, 101, 134, 90, 230, 210},
		{220, 182, 191, 234, 290, 330, 310},
		{150, 212, 201, 154, 190, 330, 410},
		{820, 832, 901, 934, 1290, 1330, 1320},
	}
	totals := make([]float64, len(raw[0]))
	for _, row := range raw {
		for i, v := range row {
			totals[i] += v
		}
	}

	series := make([]any, len(names))
	for s, name := range names {
		shares := make([]float64, len(raw[s]))
		for i, v := range raw[s] {
			if totals[i] > 0 {
				shares[i] = math.Round(v/totals[i]*1000) / 10
			}
		}
		series[s] = map[string]any{
			"name":     name,
			"type":     "bar",
			"stack":    "total",
			"barWidth": "70%",
			"label":    map[string]any{"show": true, "formatter": "{c}%"},
			"data":     shares,
		}
	}
	return Option{
		"legend": map[string]any{"selectedMode": false},
		"grid":   map[string]any{"left": 40, "right": 10, "top": 50, "bottom": 50},
		"yAxis":  map[string]any{"type": "value"},
		"xAxis":  map[string]any{"type": "category", "data": weekdays},
		"series": series,
	}
}

func pieOption() Option {
	data := make([]any, 8)
	for i, v := range []int{40, 38, 32, 30, 28, 26, 22, 18} {
		data[i] = map[string]any{"value": v, "name": "rose " + string(rune('1'+i))}
	}
	return Option{
		"legend": map[string]any{"top": "bottom"},
		"toolbox": map[string]any{
			"show": true,
			"feature": map[string]any{
				"mark":        map[string]any{"show": true},
				"dataView":    map[string]any{"show": true, "readOnly": false},
				"restore":     map[string]any{"show": true},
				"saveAsImage": map[string]any{"show": true},
			},
		},
		"series": []any{
			map[string]any{
				"name":      "Nightingale Chart",
				"type":      "pie",
				"center":    []string{"50%", "50%"},
				"roseType":  "area",
				"itemStyle": map[string]any{"borderRadius": 8},
				"data":      data,
			},
		},
	}
}

func accessSources() []any {
	return []any{
		map[string]any{"value": 1048, "name": "Search Engine"},
		map[string]any{"value": 735, "name": "Direct"},
		map[string]any{"value": 580, "name": "Email"},
		map[string]any{"value": 484, "name": "Union Ads"},
		map[string]any{"value": 300, "name": "Video Ads"},
	}
}

func donutOption() Option {
	return Option{
		"tooltip": map[string]any{"trigger": "item"},
		"legend":  map[string]any{"top": "5%", "left": "center"},
		"series": []any{
			map[string]any{
				"name":              "Access From",
				"type":              "pie",
				"radius":            []string{"40%", "70%"},
				"avoidLabelOverlap": false,
				"itemStyle": map[string]any{
					"borderRadius": 10, "borderColor": "#fff", "borderWidth": 2,
				},
				"label": map[string]any{"show": false, "position": "center"},
				"emphasis": map[string]any{
					"label": map[string]any{"show": true, "fontSize": 20, "fontWeight": "bold"},
				},
				"labelLine": map[string]any{"show": false},
				"data":      accessSources(),
			},
		},
	}
}

func semiDonutOption() Option {
	return Option{
		"tooltip": map[string]any{"trigger": "item"},
		"legend":  map[string]any{"top": "5%", "left": "center"},
		"series": []any{
			map[string]any{
				"name":       "Access From",
				"type":       "pie",
				"radius":     []string{"40%", "70%"},
				"center":     []string{"50%", "70%"},
				"startAngle": 180,
				"endAngle":   360,
				"data":       accessSources(),
			},
		},
	}
}

func barRaceOption() Option {
	return Option{
		"xAxis": map[string]any{"max": "dataMax"},
		"yAxis": map[string]any{
			"type":                    "category",
			"data":                    []string{"A", "B", "C", "D", "E"},
			"inverse":                 true,
			"animationDuration":       300,
			"animationDurationUpdate": 300,
			"max":                     2, // top three bars
		},
		"series": []any{
			map[string]any{
				"realtimeSort": true,
				"name":         "X",
				"type":         "bar",
				"data":         []int{132, 57, 181, 96, 143},
				"label": map[string]any{
					"show": true, "position": "right", "valueAnimation": true,
				},
			},
		},
		"legend":                  map[string]any{"show": true},
		"animationDuration":       0,
		"animationDurationUpdate": 3000,
		"animationEasing":         "linear",
		"animationEasingUpdate":   "linear",
	}
}

var (
	hours = []string{
		"12a", "1a", "2a", "3a", "4a", "5a", "6a", "7a", "8a", "9a", "10a", "11a",
		"12p", "1p", "2p", "3p", "4p", "5p", "6p", "7p", "8p", "9p", "10p", "11p",
	}
	days = []string{"Saturday", "Friday", "Thursday", "Wednesday", "Tuesday", "Monday", "Sunday"}

	// punchCard holds one row of 24 hourly counts per day, in days order.
	punchCard = [7][24]int{
		{5, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 4, 1, 1, 3, 4, 6, 4, 4, 3, 3, 2, 5},
		{7, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 2, 2, 6, 9, 11, 6, 7, 8, 12, 5, 5, 7, 2},
		{1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 3, 2, 1, 9, 8, 10, 6, 5, 5, 5, 7, 4, 2, 4},
		{7, 3, 0, 0, 0, 0, 0, 0, 1, 0, 5, 4, 7, 14, 13, 12, 9, 5, 5, 10, 6, 4, 4, 1},
		{1, 3, 0, 0, 0, 1, 0, 0, 0, 2, 4, 4, 2, 4, 4, 14, 12, 1, 8, 5, 3, 7, 3, 0},
		{2, 1, 0, 3, 0, 0, 0, 0, 2, 0, 4, 1, 5, 10, 5, 7, 11, 6, 0, 5, 3, 4, 2, 0},
		{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 2, 1, 3, 4, 0, 0, 0, 0, 1, 2, 2, 6},
	}
)

// heatMapOption lays the punch card out as [hour, day, count] cells; empty
// cells are rendered as "-".
func heatMapOption() Option {
	cells := make([]any, 0, len(days)*len(hours))
	for d, row := range punchCard {
		for h, count := range row {
			var v any = count
			if count == 0 {
				v = "-"
			}
			cells = append(cells, []any{h, d, v})
		}
	}
	return Option{
		"tooltip": map[string]any{"position": "top"},
		"grid":    map[string]any{"height": "50%", "top": "10%"},
		"xAxis": map[string]any{
			"type": "category", "data": hours, "splitArea": map[string]any{"show": true},
		},
		"yAxis": map[string]any{
			"type": "category", "data": days, "splitArea": map[string]any{"show": true},
		},
		"visualMap": map[string]any{
			"min": 0, "max": 10, "calculable": true,
			"orient": "horizontal", "left": "center", "bottom": "15%",
		},
		"series": []any{
			map[string]any{
				"name":  "Punch Card",
				"type":  "heatmap",
				"data":  cells,
				"label": map[string]any{"show": true},
				"emphasis": map[string]any{
					"itemStyle": map[string]any{
						"shadowBlur": 10, "shadowColor": "rgba(0, 0, 0, 0.5)",
					},
				},
			},
		},
	}
}
