package layout

import "testing"

func TestCanvasReservedSlotPaintsBeforeLaterCommands(t *testing.T) {
	var c canvas
	c.add(DrawCommand{Kind: Text, Text: "before"})
	outer := c.reserve()
	c.add(DrawCommand{Kind: Text, Text: "a"})
	inner := c.reserve()
	c.add(DrawCommand{Kind: Text, Text: "b"})
	c.set(inner, DrawCommand{Kind: FilledRect, Text: "inner"})
	c.set(outer, DrawCommand{Kind: FilledRect, Text: "outer"})
	c.add(DrawCommand{Kind: Text, Text: "after"})

	want := []string{"before", "outer", "a", "inner", "b", "after"}
	if len(c.cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(c.cmds), len(want))
	}
	for i, w := range want {
		if c.cmds[i].Text != w {
			t.Errorf("cmds[%d] = %q, want %q", i, c.cmds[i].Text, w)
		}
	}
}

func TestCanvasSetLeavesOtherCommandsInPlace(t *testing.T) {
	var c canvas
	const segments = 1000
	for i := 0; i < segments; i++ {
		at := c.reserve()
		c.add(DrawCommand{Kind: Text, Page: i})
		c.set(at, DrawCommand{Kind: FilledRect, Page: i})
	}
	if len(c.cmds) != 2*segments {
		t.Fatalf("got %d commands, want %d", len(c.cmds), 2*segments)
	}
	for i := 0; i < segments; i++ {
		fill, text := c.cmds[2*i], c.cmds[2*i+1]
		if fill.Kind != FilledRect || text.Kind != Text || fill.Page != i || text.Page != i {
			t.Fatalf("segment %d = %v/%v on pages %d/%d", i, fill.Kind, text.Kind, fill.Page, text.Page)
		}
	}
}
