/*
Package templatepack provides for the management of a set of linked templates.

The templates loaded by this package must altogether represent a full set of pages, partials, and
rendered collateral. The page entry point is `tmpl_page'. `tmpl_page` will be furnished with {{.Page}},
{{.Obj}}, {{.Globals}} and {{.Request}}, which it can use to dispatch the renderer to the appropriate
page template.

Predefined global functions are set out in text/template and html/template, with additional functions
as follows.

	subtemplate . X
		Returns the result of executing the template named `{{.Page}}_x'
	partial . X
		Returns formatted HTML
			<div id="partial_container_X">
				{{template partial_X .}}
			</div>
	now
		Returns the current time as a time.Time
	bytes N
		Formats N as a human-readable byte count
	global . X
		Returns the global named X, or nil
*/
package templatepack
