package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func exportToolDef() mcp.Tool {
	return mcp.NewTool("slop_export",
		mcp.WithDescription("Bundle files into one markdown document: a `# path` header and a fenced block per file. "+
			"Directories expand to their direct children, or their whole tree with recursive. "+
			".gitignore rules apply. Writes the document to output, or returns it with inline."),
		mcp.WithArray("paths",
			mcp.Required(),
			mcp.Description("Files and/or directories to include, relative to base"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("base",
			mcp.Description("Directory header paths are relative to (default: server working directory)"),
		),
		mcp.WithString("output",
			mcp.Description("Document path, relative to base (default: slop.md)"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Descend into subdirectories"),
		),
		mcp.WithBoolean("inline",
			mcp.Description("Return the document in the result instead of writing it"),
		),
	)
}

func importToolDef() mcp.Tool {
	return mcp.NewTool("slop_import",
		mcp.WithDescription("Recreate files from a slop document. Every `# path` header starts a file; "+
			"the fenced block below it is the content, and prose around it is ignored. "+
			"Give either path (a document file) or text (the document itself). Existing files are overwritten."),
		mcp.WithString("path",
			mcp.Description("Document file to read"),
		),
		mcp.WithString("text",
			mcp.Description("Document content"),
		),
		mcp.WithString("base",
			mcp.Description("Directory files are written under (default: server working directory)"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Decode and validate only; report the files that would be written"),
		),
	)
}
